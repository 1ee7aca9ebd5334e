package hackernews

import "fmt"

// NetworkError reports a transport failure or a non-2xx response.
type NetworkError struct {
	Resource string
	Status   int // 0 for transport failures
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("hackernews: %s status %d", e.Resource, e.Status)
	}
	return fmt.Sprintf("hackernews: %s: %v", e.Resource, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a response body that could not be decoded.
type ParseError struct {
	Resource string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("hackernews: decoding %s: %v", e.Resource, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
