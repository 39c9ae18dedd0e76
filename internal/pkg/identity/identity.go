// Package identity resolves external principals (emails, token subjects) to
// application identities. The master account is one more Provider rather
// than a flag checked throughout sign-in logic.
package identity

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/fashionai/fashionai/app/repository"
	"github.com/fashionai/fashionai/internal/pkg/plans"
)

// ErrUnknownIdentity is returned when no provider recognizes the principal.
var ErrUnknownIdentity = errors.New("identity: unknown identity")

// Identity is the resolved principal handed to downstream services.
type Identity struct {
	UserID uint
	Email  string
	Plan   plans.Plan
	Master bool
}

// Provider resolves principals to identities.
type Provider interface {
	ResolveByEmail(email string) (*Identity, error)
	ResolveByID(id uint) (*Identity, error)
}

// DBProvider resolves identities from the user store.
type DBProvider struct {
	users repository.UserRepository
}

// NewDBProvider creates an identity provider backed by the user repository.
func NewDBProvider(users repository.UserRepository) *DBProvider {
	return &DBProvider{users: users}
}

func (p *DBProvider) ResolveByEmail(email string) (*Identity, error) {
	user, err := p.users.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownIdentity
		}
		return nil, err
	}
	return &Identity{
		UserID: user.ID,
		Email:  user.Email,
		Plan:   plans.Normalize(user.PlanType),
	}, nil
}

func (p *DBProvider) ResolveByID(id uint) (*Identity, error) {
	user, err := p.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownIdentity
		}
		return nil, err
	}
	return &Identity{
		UserID: user.ID,
		Email:  user.Email,
		Plan:   plans.Normalize(user.PlanType),
	}, nil
}

// Chain tries each provider in order and returns the first match.
type Chain []Provider

func (c Chain) ResolveByEmail(email string) (*Identity, error) {
	for _, p := range c {
		id, err := p.ResolveByEmail(email)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, ErrUnknownIdentity) {
			return nil, err
		}
	}
	return nil, ErrUnknownIdentity
}

func (c Chain) ResolveByID(id uint) (*Identity, error) {
	for _, p := range c {
		ident, err := p.ResolveByID(id)
		if err == nil {
			return ident, nil
		}
		if !errors.Is(err, ErrUnknownIdentity) {
			return nil, err
		}
	}
	return nil, ErrUnknownIdentity
}
