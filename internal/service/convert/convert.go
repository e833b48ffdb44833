// Package convert maps between storage models and wire messages and parses
// the string ids every request carries.
package convert

import (
	"strconv"

	"github.com/oggyb/tutormatch/internal/db"
	svcErr "github.com/oggyb/tutormatch/internal/errors"
	"github.com/oggyb/tutormatch/internal/matching"
	"github.com/oggyb/tutormatch/internal/proto/common"
)

// ParseID parses a decimal, non-zero id. field names the request field in
// the InvalidArgument message.
func ParseID(field, value string) (uint64, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.InvalidArgument(field + " must be a valid uint64")
	}
	return id, nil
}

// FormatID is the inverse of ParseID.
func FormatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// Tags converts stored tags to wire tags. The result is never nil.
func Tags(tags []db.Tag) []*common.Tag {
	out := make([]*common.Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, &common.Tag{
			Name:               t.Name,
			Level:              t.Level,
			DesiredLevel:       t.DesiredLevel,
			Description:        t.Description,
			RequiresEvaluation: t.RequiresEvaluation,
		})
	}
	return out
}

func RatingSummary(s matching.Summary) *common.RatingSummary {
	return &common.RatingSummary{Average: s.Average, Count: s.Count}
}

func UserCard(u db.User) *common.UserCard {
	return &common.UserCard{
		UserId:   FormatID(u.ID),
		Name:     u.Name,
		PhotoUrl: u.PhotoURL,
		Role:     string(u.Role),
	}
}
