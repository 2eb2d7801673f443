// Package access decides who may set privileged booking fields. A caller
// is privileged when its user id is in the configured admin list or the
// user row carries the admin flag.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"stolik/internal/models"
)

// UserSource looks up user records for the admin-flag check.
type UserSource interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// Service implements the privilege check.
type Service struct {
	admins map[int64]bool
	users  UserSource
	logger zerolog.Logger
}

// NewService creates an access service over the configured admin ids and
// the user store.
func NewService(adminIDs []int64, users UserSource, logger zerolog.Logger) *Service {
	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	return &Service{
		admins: admins,
		users:  users,
		logger: logger.With().Str("component", "access").Logger(),
	}
}

// IsPrivileged reports whether the user may write status, cost and user_id
// fields directly. An unknown user id is simply not privileged.
func (s *Service) IsPrivileged(ctx context.Context, userID int64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	if s.admins[userID] {
		return true, nil
	}
	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking admin flag for user %d: %w", userID, err)
	}
	return user.IsAdmin, nil
}

// RequirePrivilege returns an AccessDeniedError unless the user is
// privileged.
func (s *Service) RequirePrivilege(ctx context.Context, userID int64) error {
	ok, err := s.IsPrivileged(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Debug().Int64("user_id", userID).Msg("privilege denied")
		return &AccessDeniedError{UserID: userID}
	}
	return nil
}

// AccessDeniedError is returned when a user lacks privilege.
type AccessDeniedError struct {
	UserID int64
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("user %d is not privileged", e.UserID)
}

// IsAccessDenied checks if error is access denied.
func IsAccessDenied(err error) bool {
	var denied *AccessDeniedError
	return errors.As(err, &denied)
}
