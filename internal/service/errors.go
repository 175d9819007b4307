package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/wiselyspent/backend/internal/auth"
	"github.com/wiselyspent/backend/internal/calculator"
	"github.com/wiselyspent/backend/internal/middleware"
	"github.com/wiselyspent/backend/internal/storage"
)

var (
	errNotMember       = errors.New("not a member of this group")
	errNotCreator      = errors.New("only the group creator can do this")
	errNotInvolved     = errors.New("caller is not involved in this record")
	errSelf            = errors.New("target must be another user")
	errNothingToSettle = errors.New("nothing to settle")
	errNothingOwed     = errors.New("nothing is owed to you")
	errUnsettledGroup  = errors.New("group has unsettled balances")
)

// toConnectError maps domain errors onto Connect codes. Errors that are
// already Connect errors pass through unchanged.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	var validationErr *calculator.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, errNotMember), errors.Is(err, errNotCreator), errors.Is(err, errNotInvolved):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, errSelf):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, errNothingToSettle), errors.Is(err, errNothingOwed), errors.Is(err, errUnsettledGroup):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, auth.ErrEmailExists), errors.Is(err, auth.ErrCustomIDExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrMissingEmail):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(msg string) error {
	return connect.NewError(connect.CodeInvalidArgument, errors.New(msg))
}

// callerID returns the authenticated user, or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
