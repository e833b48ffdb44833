package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oggyb/tutormatch/internal/db"
	"github.com/oggyb/tutormatch/internal/service/convert"
)

func TestParseID(t *testing.T) {
	id, err := convert.ParseID("actor_user_id", "42")
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	for _, bad := range []string{"", "0", "-1", "abc", "1.5"} {
		_, err := convert.ParseID("actor_user_id", bad)
		assert.Equal(t, codes.InvalidArgument, status.Code(err), bad)
		assert.Contains(t, err.Error(), "actor_user_id")
	}
}

func TestTagsNeverNil(t *testing.T) {
	assert.NotNil(t, convert.Tags(nil))

	out := convert.Tags([]db.Tag{{Name: "Go", Level: "advanced", RequiresEvaluation: true}})
	assert.Equal(t, "Go", out[0].Name)
	assert.Equal(t, "advanced", out[0].Level)
	assert.True(t, out[0].RequiresEvaluation)
}

func TestUserCard(t *testing.T) {
	card := convert.UserCard(db.User{ID: 5, Name: "Ada", PhotoURL: "a.png", Role: db.RoleTeacher})
	assert.Equal(t, "5", card.UserId)
	assert.Equal(t, "Ada", card.Name)
	assert.Equal(t, "a.png", card.PhotoUrl)
	assert.Equal(t, "teacher", card.Role)
}
