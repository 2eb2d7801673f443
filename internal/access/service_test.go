package access

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stolik/internal/models"
)

type userMap map[int64]*models.User

func (m userMap) GetUser(_ context.Context, id int64) (*models.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	return u, nil
}

func TestIsPrivileged(t *testing.T) {
	users := userMap{
		1: {ID: 1, IsAdmin: false},
		2: {ID: 2, IsAdmin: true},
	}
	svc := NewService([]int64{7}, users, zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name   string
		userID int64
		want   bool
	}{
		{"configured admin id", 7, true},
		{"admin flag on record", 2, true},
		{"plain user", 1, false},
		{"unknown user", 99, false},
		{"anonymous", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.IsPrivileged(ctx, tt.userID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequirePrivilege(t *testing.T) {
	svc := NewService(nil, userMap{1: {ID: 1}}, zerolog.Nop())

	err := svc.RequirePrivilege(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, IsAccessDenied(err))

	var denied *AccessDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, int64(1), denied.UserID)
}
