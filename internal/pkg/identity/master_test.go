package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fashionai/fashionai/internal/pkg/plans"
)

func TestMasterProviderAuthenticate(t *testing.T) {
	master := NewMasterProvider("Demo@Example.com", "demo-password")

	ident, ok := master.Authenticate("demo@example.com", "demo-password")
	require.True(t, ok)
	assert.Equal(t, MasterUserID, ident.UserID)
	assert.Equal(t, plans.PlanMaster, ident.Plan)
	assert.True(t, ident.Master)

	_, ok = master.Authenticate("demo@example.com", "wrong")
	assert.False(t, ok)
	_, ok = master.Authenticate("other@example.com", "demo-password")
	assert.False(t, ok)
}

func TestMasterProviderDisabledWithoutCredentials(t *testing.T) {
	for _, master := range []*MasterProvider{
		NewMasterProvider("", ""),
		NewMasterProvider("demo@example.com", ""),
		NewMasterProvider("", "demo-password"),
	} {
		_, ok := master.Authenticate("demo@example.com", "demo-password")
		assert.False(t, ok)

		_, err := master.ResolveByEmail("demo@example.com")
		assert.ErrorIs(t, err, ErrUnknownIdentity)
		_, err = master.ResolveByID(MasterUserID)
		assert.ErrorIs(t, err, ErrUnknownIdentity)
	}
}

func TestMasterProviderResolve(t *testing.T) {
	master := NewMasterProvider("demo@example.com", "demo-password")

	ident, err := master.ResolveByEmail("  DEMO@example.com ")
	require.NoError(t, err)
	assert.True(t, ident.Master)

	ident, err = master.ResolveByID(MasterUserID)
	require.NoError(t, err)
	assert.True(t, ident.Master)

	_, err = master.ResolveByID(42)
	assert.ErrorIs(t, err, ErrUnknownIdentity)
}

// fixedProvider resolves a single known email.
type fixedProvider struct {
	email string
	ident *Identity
}

func (p fixedProvider) ResolveByEmail(email string) (*Identity, error) {
	if email == p.email {
		return p.ident, nil
	}
	return nil, ErrUnknownIdentity
}

func (p fixedProvider) ResolveByID(id uint) (*Identity, error) {
	if id == p.ident.UserID {
		return p.ident, nil
	}
	return nil, ErrUnknownIdentity
}

func TestChainTriesProvidersInOrder(t *testing.T) {
	master := NewMasterProvider("demo@example.com", "demo-password")
	db := fixedProvider{email: "user@example.com", ident: &Identity{UserID: 7, Email: "user@example.com", Plan: plans.PlanBasic}}
	chain := Chain{master, db}

	ident, err := chain.ResolveByEmail("demo@example.com")
	require.NoError(t, err)
	assert.True(t, ident.Master)

	ident, err = chain.ResolveByEmail("user@example.com")
	require.NoError(t, err)
	assert.False(t, ident.Master)
	assert.Equal(t, uint(7), ident.UserID)

	_, err = chain.ResolveByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrUnknownIdentity)

	ident, err = chain.ResolveByID(MasterUserID)
	require.NoError(t, err)
	assert.True(t, ident.Master)
}
