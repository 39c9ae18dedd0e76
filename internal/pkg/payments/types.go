package payments

// Provider identifies the payment processor in the webhook event table.
const Provider = "kirvano"

// Webhook event types. Only purchase.completed has side effects; everything
// else is accepted and ignored.
const (
	EventPurchaseCompleted    = "purchase.completed"
	EventSubscriptionCreated  = "subscription.created"
	EventSubscriptionCanceled = "subscription.cancelled"
	EventRefundProcessed      = "refund.processed"
)

// WebhookPayload is the processor's delivery shape.
type WebhookPayload struct {
	Event string    `json:"event" validate:"required"`
	Data  EventData `json:"data"`
}

// EventData carries the purchase details we act on.
type EventData struct {
	TransactionID string  `json:"transactionId"`
	CustomerEmail string  `json:"customerEmail" validate:"omitempty,email"`
	PlanType      string  `json:"planType"`
	ReferralCode  string  `json:"referralCode,omitempty"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency,omitempty"`
}
