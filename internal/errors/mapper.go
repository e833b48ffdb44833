// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

// Domain errors returned by repositories and matching components.
// Wrap them with context; Map recognizes them through errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")

	// ErrDuplicateSwipe is returned when the ordered pair already has a swipe.
	ErrDuplicateSwipe = fmt.Errorf("%w: swipe already recorded for this user", ErrConflict)
	// ErrRoleChange is returned when a completed profile tries to switch role.
	ErrRoleChange = fmt.Errorf("%w: role cannot be changed once set", ErrConflict)
)

// Validation wraps ErrValidation with a caller-facing message.
func Validation(msg string) error {
	return &domainError{kind: ErrValidation, msg: msg}
}

// NotFound wraps ErrNotFound with a caller-facing message.
func NotFound(msg string) error {
	return &domainError{kind: ErrNotFound, msg: msg}
}

// Forbidden wraps ErrForbidden with a caller-facing message.
func Forbidden(msg string) error {
	return &domainError{kind: ErrForbidden, msg: msg}
}

type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.kind }

// Map converts repo/infra errors into gRPC-friendly status errors.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, ErrNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, gorm.ErrRecordNotFound):
		return status.Error(codes.NotFound, "record not found")

	case errors.Is(err, ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
		return status.Error(codes.AlreadyExists, err.Error())

	case errors.Is(err, ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request was canceled")

	default:
		// persistence failure, bubble up the message for debugging
		return status.Error(codes.Internal, err.Error())
	}
}

// IsInternal reports whether Map would turn err into codes.Internal.
// Services log those at error level.
func IsInternal(err error) bool {
	return status.Code(Map(err)) == codes.Internal
}

// InvalidArgument creates a gRPC InvalidArgument error.
// Use this in service layer for bad input validation.
func InvalidArgument(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}

// PermissionDenied creates a gRPC PermissionDenied error.
func PermissionDenied(msg string) error {
	return status.Error(codes.PermissionDenied, msg)
}
