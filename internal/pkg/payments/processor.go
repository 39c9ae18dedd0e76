package payments

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fashionai/fashionai/app/models"
	"github.com/fashionai/fashionai/app/repository"
	"github.com/fashionai/fashionai/internal/pkg/commission"
	"github.com/fashionai/fashionai/internal/pkg/identity"
	"github.com/fashionai/fashionai/internal/pkg/ledger"
	"github.com/fashionai/fashionai/internal/pkg/metrics"
	"github.com/fashionai/fashionai/internal/pkg/plans"
)

var (
	// ErrInvalidSignature means the delivery failed HMAC verification and
	// nothing was processed or persisted.
	ErrInvalidSignature = errors.New("payments: invalid webhook signature")

	// ErrMalformedPayload means the body was not a parsable webhook payload.
	ErrMalformedPayload = errors.New("payments: malformed webhook payload")
)

// Processor verifies, deduplicates and applies payment webhook deliveries.
type Processor struct {
	events   repository.WebhookEventRepository
	users    repository.UserRepository
	ledger   *ledger.Service
	engine   *commission.Engine
	identity identity.Provider
	secret   string
	validate *validator.Validate
}

// NewProcessor wires the webhook processing pipeline.
func NewProcessor(
	events repository.WebhookEventRepository,
	users repository.UserRepository,
	ledgerSvc *ledger.Service,
	engine *commission.Engine,
	idp identity.Provider,
	secret string,
) *Processor {
	return &Processor{
		events:   events,
		users:    users,
		ledger:   ledgerSvc,
		engine:   engine,
		identity: idp,
		secret:   secret,
		validate: validator.New(),
	}
}

// Handle processes one webhook delivery. The raw body is verified before
// anything else happens; a bad signature causes no side effects at all.
// Replays of successfully processed deliveries (same provider event id)
// short-circuit after the idempotent event insert; retries of failed ones
// are processed again.
func (p *Processor) Handle(raw []byte, signatureHeader string) error {
	if !VerifySignature(raw, signatureHeader, p.secret) {
		metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		return ErrInvalidSignature
	}

	var payload WebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := p.validate.Struct(&payload); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	eventID := payload.Data.TransactionID
	if eventID == "" {
		sum := sha256.Sum256(raw)
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	created, stored, err := p.events.CreateIfNotExists(&models.PaymentWebhookEvent{
		Provider:        Provider,
		ProviderEventID: eventID,
		EventType:       payload.Event,
		PayloadJSON:     string(raw),
		SignatureValid:  true,
	})
	if err != nil {
		return err
	}
	if !created {
		// Only short-circuit deliveries that already went through cleanly.
		// A retry of an event whose processing never finished, or finished
		// with an error, gets another attempt against the same event row.
		if stored.ProcessedAt != nil && stored.ProcessingError == "" {
			log.Printf("payments: replayed webhook event %s/%s, skipping", Provider, eventID)
			metrics.WebhookEvents.WithLabelValues(payload.Event, "replayed").Inc()
			return nil
		}
		log.Printf("payments: retrying webhook event %s/%s after earlier failure", Provider, eventID)
	}

	var processingErr error
	switch payload.Event {
	case EventPurchaseCompleted:
		processingErr = p.applyPurchase(payload.Data)
	default:
		// Unknown and non-purchase events are accepted and ignored.
		log.Printf("payments: ignoring webhook event type %q", payload.Event)
	}

	errMsg := ""
	outcome := "processed"
	if processingErr != nil {
		errMsg = processingErr.Error()
		outcome = "failed"
	}
	if err := p.events.MarkProcessed(stored.ID, errMsg); err != nil {
		log.Printf("payments: failed to mark event %d processed: %v", stored.ID, err)
	}
	metrics.WebhookEvents.WithLabelValues(payload.Event, outcome).Inc()
	return processingErr
}

// applyPurchase grants the payer their plan's credits, records the plan on
// the user, and settles any referral commission. Commission bookkeeping
// never fails the purchase.
func (p *Processor) applyPurchase(data EventData) error {
	plan := plans.Normalize(data.PlanType)

	ident, err := p.identity.ResolveByEmail(data.CustomerEmail)
	if err != nil {
		if errors.Is(err, identity.ErrUnknownIdentity) {
			log.Printf("payments: purchase for unknown customer %q, nothing to grant", data.CustomerEmail)
			return nil
		}
		return err
	}

	if !ident.Master {
		now := time.Now()
		if _, err := p.ledger.GrantCredits(
			ident.UserID, plans.CreditsFor(plan), models.CreditSourcePurchase, plans.PurchaseExpiry(now),
		); err != nil {
			return fmt.Errorf("granting purchase credits: %w", err)
		}
		metrics.CreditsGranted.WithLabelValues(models.CreditSourcePurchase).Add(float64(plans.CreditsFor(plan)))

		user, err := p.users.GetByID(ident.UserID)
		if err != nil {
			return fmt.Errorf("loading purchaser: %w", err)
		}
		user.PlanType = string(plan)
		if err := p.users.Update(user); err != nil {
			return fmt.Errorf("recording plan: %w", err)
		}
	}

	if _, err := p.engine.SettlePurchase(data.CustomerEmail, string(plan)); err != nil {
		log.Printf("payments: commission settlement failed for %q: %v", data.CustomerEmail, err)
	}
	return nil
}
