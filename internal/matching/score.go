package matching

import (
	"strings"

	"github.com/oggyb/tutormatch/internal/db"
)

// TagSet is a set of normalized tag names.
type TagSet map[string]struct{}

// NewTagSet lowercases and trims tag names. Blank names are dropped and
// repeated names collapse into one entry.
func NewTagSet(tags []db.Tag) TagSet {
	set := make(TagSet, len(tags))
	for _, t := range tags {
		name := normalizeTagName(t.Name)
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

// Score counts the distinct names shared by s and the candidate's tags.
//
// Example:
//
//	own := NewTagSet([]db.Tag{{Name: "Python"}, {Name: "Guitar"}})
//	own.Score([]db.Tag{{Name: " python "}}) // 1
func (s TagSet) Score(candidate []db.Tag) int {
	if len(s) == 0 {
		return 0
	}
	score := 0
	for name := range NewTagSet(candidate) {
		if _, ok := s[name]; ok {
			score++
		}
	}
	return score
}

func normalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
