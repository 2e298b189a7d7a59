package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	tenantID := uuid.New()

	t.Run("valid staff user", func(t *testing.T) {
		u, err := NewUser(tenantID, "Finance.Lead", "lead@momtaz.example", "s3curePass1", RoleFinancial)
		require.NoError(t, err)
		assert.Equal(t, "finance.lead", u.Username, "usernames are lowercased")
		assert.Equal(t, UserStatusActive, u.Status)
		assert.True(t, u.VerifyPassword("s3curePass1"))
		assert.False(t, u.VerifyPassword("wrong"))
	})

	t.Run("short password rejected", func(t *testing.T) {
		_, err := NewUser(tenantID, "user1", "u@example.com", "ab1", RoleCustomer)
		assert.Error(t, err)
	})

	t.Run("password needs letter and digit", func(t *testing.T) {
		_, err := NewUser(tenantID, "user2", "u2@example.com", "onlyletters", RoleCustomer)
		assert.Error(t, err)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, err := NewUser(tenantID, "user3", "u3@example.com", "s3curePass1", Role("wizard"))
		assert.Error(t, err)
	})

	t.Run("bad email rejected", func(t *testing.T) {
		_, err := NewUser(tenantID, "user4", "not-an-email", "s3curePass1", RoleCustomer)
		assert.Error(t, err)
	})
}

func TestUser_LoginLockout(t *testing.T) {
	u, err := NewUser(uuid.New(), "warehouse1", "wh@momtaz.example", "s3curePass1", RoleWarehouse)
	require.NoError(t, err)

	assert.False(t, u.RecordLoginFailure(3, time.Hour))
	assert.False(t, u.RecordLoginFailure(3, time.Hour))
	assert.True(t, u.RecordLoginFailure(3, time.Hour), "third failure locks")
	assert.True(t, u.IsLocked())
	assert.False(t, u.CanLogin())

	require.NoError(t, u.Unlock())
	assert.True(t, u.CanLogin())
	assert.Zero(t, u.FailedAttempts)

	u.RecordLoginSuccess("10.0.0.7")
	assert.NotNil(t, u.LastLoginAt)
	assert.Equal(t, "10.0.0.7", u.LastLoginIP)
}

func TestUser_LockExpiry(t *testing.T) {
	u, err := NewUser(uuid.New(), "logistics1", "lg@momtaz.example", "s3curePass1", RoleLogistics)
	require.NoError(t, err)

	u.RecordLoginFailure(1, -time.Minute)
	assert.False(t, u.IsLocked(), "expired lock no longer holds")
	assert.True(t, u.CanLogin())
}

func TestUser_CanAct(t *testing.T) {
	admin, _ := NewUser(uuid.New(), "admin1", "a@momtaz.example", "s3curePass1", RoleAdmin)
	fin, _ := NewUser(uuid.New(), "fin1", "f@momtaz.example", "s3curePass1", RoleFinancial)

	assert.True(t, admin.CanAct(RoleWarehouse))
	assert.True(t, fin.CanAct(RoleFinancial))
	assert.False(t, fin.CanAct(RoleWarehouse))
}
