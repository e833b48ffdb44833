package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

func TestMap(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"validation", Validation("score must be between 1 and 5"), codes.InvalidArgument},
		{"not found", NotFound("match not found"), codes.NotFound},
		{"gorm not found", fmt.Errorf("load user: %w", gorm.ErrRecordNotFound), codes.NotFound},
		{"duplicate swipe", fmt.Errorf("record swipe: %w", ErrDuplicateSwipe), codes.AlreadyExists},
		{"duplicate key", gorm.ErrDuplicatedKey, codes.AlreadyExists},
		{"role change", ErrRoleChange, codes.AlreadyExists},
		{"forbidden", Forbidden("not a participant"), codes.PermissionDenied},
		{"deadline", context.DeadlineExceeded, codes.DeadlineExceeded},
		{"canceled", context.Canceled, codes.Canceled},
		{"persistence", errors.New("disk I/O error"), codes.Internal},
		{"already status", status.Error(codes.Unauthenticated, "no token"), codes.Unauthenticated},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, status.Code(Map(tc.err)))
		})
	}
	assert.Nil(t, Map(nil))
}

func TestMap_KeepsDomainMessage(t *testing.T) {
	err := Map(Validation("decision must be like or skip"))
	assert.Equal(t, "decision must be like or skip", status.Convert(err).Message())
}

func TestDomainErrorsUnwrap(t *testing.T) {
	assert.ErrorIs(t, ErrDuplicateSwipe, ErrConflict)
	assert.ErrorIs(t, Forbidden("x"), ErrForbidden)
	assert.True(t, IsInternal(errors.New("boom")))
	assert.False(t, IsInternal(NotFound("x")))
}
