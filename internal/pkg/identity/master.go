package identity

import (
	"crypto/subtle"
	"strings"

	"github.com/fashionai/fashionai/internal/pkg/plans"
)

// MasterUserID is a reserved id outside the auto-increment range of the
// users table.
const MasterUserID uint = 1<<32 - 1

// MasterProvider returns a fixed, privileged identity for the configured
// demo credentials. It never touches the user store: the master account has
// no row, no ledger and no referral code.
type MasterProvider struct {
	email    string
	password string
}

// NewMasterProvider creates a master provider. Empty credentials disable it.
func NewMasterProvider(email, password string) *MasterProvider {
	return &MasterProvider{
		email:    strings.ToLower(strings.TrimSpace(email)),
		password: password,
	}
}

func (p *MasterProvider) enabled() bool {
	return p.email != "" && p.password != ""
}

func (p *MasterProvider) identity() *Identity {
	return &Identity{
		UserID: MasterUserID,
		Email:  p.email,
		Plan:   plans.PlanMaster,
		Master: true,
	}
}

func (p *MasterProvider) ResolveByEmail(email string) (*Identity, error) {
	if !p.enabled() || strings.ToLower(strings.TrimSpace(email)) != p.email {
		return nil, ErrUnknownIdentity
	}
	return p.identity(), nil
}

func (p *MasterProvider) ResolveByID(id uint) (*Identity, error) {
	if !p.enabled() || id != MasterUserID {
		return nil, ErrUnknownIdentity
	}
	return p.identity(), nil
}

// Authenticate checks the demo credentials and returns the master identity
// on success.
func (p *MasterProvider) Authenticate(email, password string) (*Identity, bool) {
	if !p.enabled() {
		return nil, false
	}
	if strings.ToLower(strings.TrimSpace(email)) != p.email {
		return nil, false
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(p.password)) != 1 {
		return nil, false
	}
	return p.identity(), true
}
