package profile

import (
	"fmt"
	"strings"

	"github.com/oggyb/tutormatch/internal/db"
	svcErr "github.com/oggyb/tutormatch/internal/errors"
	"github.com/oggyb/tutormatch/internal/proto/common"
)

var studentLevels = map[string]bool{
	"beginner":     true,
	"intermediate": true,
	"advanced":     true,
}

// tagsForRole validates wire tags for a user of role and turns them into rows.
//
// Rules:
//   - Blank names are skipped; at least one named tag must remain.
//   - Students' level defaults to beginner and must be a known level.
//   - DesiredLevel is kept for students only.
func tagsForRole(role db.Role, in []*common.Tag) ([]db.Tag, error) {
	out := make([]db.Tag, 0, len(in))
	for _, t := range in {
		if t == nil {
			continue
		}
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		tag := db.Tag{
			Name:               name,
			Level:              strings.ToLower(strings.TrimSpace(t.Level)),
			Description:        strings.TrimSpace(t.Description),
			RequiresEvaluation: t.RequiresEvaluation,
		}
		if role == db.RoleStudent {
			if tag.Level == "" {
				tag.Level = "beginner"
			}
			if !studentLevels[tag.Level] {
				return nil, svcErr.Validation(fmt.Sprintf("unknown level %q for interest %q", t.Level, name))
			}
			tag.DesiredLevel = strings.ToLower(strings.TrimSpace(t.DesiredLevel))
		}
		out = append(out, tag)
	}

	if len(out) == 0 {
		if role == db.RoleTeacher {
			return nil, svcErr.Validation("teachers need at least one skill")
		}
		return nil, svcErr.Validation("students need at least one interest")
	}
	return out, nil
}
