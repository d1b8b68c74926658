package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	userID := uuid.New()
	tenantID := uuid.New()

	token, err := m.Issue(userID, RoleReceptionist, tenantID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Parse(token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, RoleReceptionist, claims.Role)
	assert.Equal(t, tenantID, claims.TenantID)
}

func TestParse_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue(uuid.New(), RoleTenantAdmin, uuid.New())
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_RejectsExpiredToken(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute)

	token, err := m.Issue(uuid.New(), RoleCustomer, uuid.New())
	require.NoError(t, err)

	_, err = m.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_RejectsGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	_, err := m.Parse("not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"customer", "receptionist", "tenant_admin"} {
		role, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, Role(s), role)
	}

	_, err := ParseRole("superuser")
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestCapabilities(t *testing.T) {
	customer := &Claims{Role: RoleCustomer}
	receptionist := &Claims{Role: RoleReceptionist}
	admin := &Claims{Role: RoleTenantAdmin}

	assert.False(t, CanCreateBooking(customer))
	assert.True(t, CanCreateBooking(receptionist))
	assert.True(t, CanCreateBooking(admin))

	// Перенос на другой слот - только администратор тенанта
	assert.False(t, CanChangeSlot(customer))
	assert.False(t, CanChangeSlot(receptionist))
	assert.True(t, CanChangeSlot(admin))

	assert.True(t, CanCancelBooking(receptionist))
	assert.True(t, CanManagePackages(admin))
	assert.False(t, CanManagePackages(customer))

	// nil-клеймы безопасны для всех проверок
	assert.False(t, CanCreateBooking(nil))
	assert.False(t, CanUpdateBooking(nil))
	assert.False(t, CanChangeSlot(nil))
	assert.False(t, CanCancelBooking(nil))
	assert.False(t, CanManagePackages(nil))
}

func TestClaimsContextRoundtrip(t *testing.T) {
	claims := &Claims{
		UserID:   uuid.New(),
		Role:     RoleTenantAdmin,
		TenantID: uuid.New(),
	}

	ctx := WithClaims(context.Background(), claims)
	got := ClaimsFromContext(ctx)
	require.NotNil(t, got)
	assert.Equal(t, claims, got)

	assert.Nil(t, ClaimsFromContext(context.Background()))
}
