package controllers

import (
	"github.com/fashionai/fashionai/app/repository"
	"github.com/fashionai/fashionai/internal/pkg/commission"
	"github.com/fashionai/fashionai/internal/pkg/identity"
	"github.com/fashionai/fashionai/internal/pkg/ledger"
	"github.com/fashionai/fashionai/internal/pkg/payments"
	"github.com/fashionai/fashionai/internal/pkg/referral"
	"github.com/fashionai/fashionai/internal/pkg/tryon"
)

// Deps carries the wired services the handlers need.
type Deps struct {
	Repos     *repository.Repositories
	Ledger    *ledger.Service
	Registry  *referral.Registry
	Engine    *commission.Engine
	Processor *payments.Processor
	Generator *tryon.Service
	Identity  identity.Provider
	Master    *identity.MasterProvider
}

var deps Deps

// Setup injects the service graph. Must be called before routes are served.
func Setup(d Deps) {
	deps = d
}
