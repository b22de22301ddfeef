package stream

import (
	"path"
	"sort"
	"strings"
)

// Suffixes is the configured set of viewable file suffixes, held sorted
// longest-first so that ambiguous matches resolve to the longest suffix
// (".jpeg" wins over ".peg").
type Suffixes []string

// NewSuffixes normalizes and orders a viewable-suffix list.
func NewSuffixes(list []string) Suffixes {
	s := make(Suffixes, 0, len(list))
	for _, suffix := range list {
		suffix = strings.ToLower(suffix)
		if suffix != "" && !strings.HasPrefix(suffix, ".") {
			suffix = "." + suffix
		}
		if suffix != "" {
			s = append(s, suffix)
		}
	}
	sort.Slice(s, func(i, j int) bool { return len(s[i]) > len(s[j]) })
	return s
}

// Match returns the longest viewable suffix of name, or "" if name is not a
// viewable file.
func (s Suffixes) Match(name string) string {
	lower := strings.ToLower(name)
	for _, suffix := range s {
		if strings.HasSuffix(lower, suffix) {
			return suffix
		}
	}
	return ""
}

// Categorize derives the artifact category of a viewable file name: the base
// name with the matched suffix and a trailing digit run stripped. The second
// result is false when the stem is empty after stripping, in which case the
// artifact belongs to no category.
func (s Suffixes) Categorize(name string) (string, bool) {
	suffix := s.Match(name)
	if suffix == "" {
		return "", false
	}
	stem := path.Base(name)
	stem = stem[:len(stem)-len(suffix)]
	stem = strings.TrimRight(stem, "0123456789")
	if stem == "" {
		return "", false
	}
	return stem, true
}
