package classify

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var defaultKeywords []byte

// KeywordSet is the exclusion list as it appears on disk.
type KeywordSet struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// DefaultKeywordSet returns the embedded keyword set.
func DefaultKeywordSet() (KeywordSet, error) {
	return ParseKeywordSet(defaultKeywords)
}

// LoadKeywordSet reads a keyword set from a YAML file.
func LoadKeywordSet(path string) (KeywordSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return KeywordSet{}, fmt.Errorf("reading keywords %s: %w", path, err)
	}
	ks, err := ParseKeywordSet(data)
	if err != nil {
		return KeywordSet{}, fmt.Errorf("parsing keywords %s: %w", path, err)
	}
	return ks, nil
}

// ParseKeywordSet decodes and normalizes a YAML keyword set.
func ParseKeywordSet(data []byte) (KeywordSet, error) {
	var ks KeywordSet
	if err := yaml.Unmarshal(data, &ks); err != nil {
		return KeywordSet{}, err
	}
	ks.Keywords = normalize(ks.Keywords)
	if len(ks.Keywords) == 0 {
		return KeywordSet{}, fmt.Errorf("keyword set %q is empty", ks.Name)
	}
	return ks, nil
}

// With returns a copy extended by extra keywords.
func (ks KeywordSet) With(extra ...string) KeywordSet {
	out := KeywordSet{Name: ks.Name}
	out.Keywords = normalize(append(append([]string{}, ks.Keywords...), extra...))
	return out
}

// Fingerprint identifies the keyword set independent of its order.
func (ks KeywordSet) Fingerprint() string {
	sorted := append([]string{}, ks.Keywords...)
	sort.Strings(sorted)
	return fmt.Sprintf("%016x", xxh3.HashString(strings.Join(sorted, "\n")))
}

// normalize lowercases, collapses inner whitespace and drops blanks and duplicates.
func normalize(in []string) []string {
	cleaned := lo.Map(in, func(kw string, _ int) string {
		return strings.Join(strings.Fields(strings.ToLower(kw)), " ")
	})
	cleaned = lo.Filter(cleaned, func(kw string, _ int) bool { return kw != "" })
	return lo.Uniq(cleaned)
}
