package store

import (
	"testing"

	"taskboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countUsers(t *testing.T, s *UserStore) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(&domain.User{}).Count(&n).Error)
	return n
}

func TestCreateUserHashesPassword(t *testing.T) {
	users := NewUserStore(newTestDB(t))

	u, err := users.CreateUser(ctx, "alice", "alice@x.com", "pw123")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "pw123", u.PasswordHash)
	assert.False(t, u.CreatedAt.IsZero())

	found, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.True(t, users.Verify(found, "pw123"))
	assert.False(t, users.Verify(found, "pw1234"))
	assert.False(t, users.Verify(nil, "pw123"))
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	users := NewUserStore(newTestDB(t))
	_, err := users.CreateUser(ctx, "alice", "alice@x.com", "pw123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"same username", "alice", "other@x.com"},
		{"same email", "bob", "alice@x.com"},
		{"both", "alice", "alice@x.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := countUsers(t, users)
			_, err := users.CreateUser(ctx, tt.username, tt.email, "pw")
			assert.ErrorIs(t, err, ErrDuplicateIdentity)
			assert.Equal(t, before, countUsers(t, users))
		})
	}
}

func TestFindMissingUser(t *testing.T) {
	users := NewUserStore(newTestDB(t))

	_, err := users.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = users.FindByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListUsersOrderedByUsername(t *testing.T) {
	users := NewUserStore(newTestDB(t))
	for _, name := range []string{"carol", "alice", "bob"} {
		_, err := users.CreateUser(ctx, name, name+"@x.com", "pw")
		require.NoError(t, err)
	}

	list, err := users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "alice", list[0].Username)
	assert.Equal(t, "bob", list[1].Username)
	assert.Equal(t, "carol", list[2].Username)
}

func TestBootstrapAdminIsIdempotent(t *testing.T) {
	users := NewUserStore(newTestDB(t))
	creds := AdminCredentials{Username: "admin", Email: "admin@example.com", Password: "letmein"}

	created, password, err := users.BootstrapAdmin(ctx, creds)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "letmein", password)

	created, _, err = users.BootstrapAdmin(ctx, creds)
	require.NoError(t, err)
	assert.False(t, created)
	assert.EqualValues(t, 1, countUsers(t, users))

	admin, err := users.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, users.Verify(admin, "letmein"))
}

func TestBootstrapAdminGeneratesPassword(t *testing.T) {
	users := NewUserStore(newTestDB(t))

	created, password, err := users.BootstrapAdmin(ctx, AdminCredentials{Username: "root", Email: "root@example.com"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, password, 24)

	admin, err := users.FindByUsername(ctx, "root")
	require.NoError(t, err)
	assert.True(t, users.Verify(admin, password))
	assert.NoError(t, ProvisionAdmin(ctx, users, AdminCredentials{Username: "root", Email: "root@example.com"}))
}
