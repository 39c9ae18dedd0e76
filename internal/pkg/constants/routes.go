package constants

// Static route constants
const (
	APIRoute     = "/api"
	APIV1Route   = "/v1"
	MetricsRoute = "/metrics"

	RegisterRoute = "/auth/register"
	LoginRoute    = "/auth/login"

	CreditsRoute        = "/credits"
	CreditsSpendRoute   = "/credits/spend"
	CreditsHistoryRoute = "/credits/history"

	ReferralsRoute = "/referrals"

	GenerateRoute = "/generate"
	ImagesRoute   = "/images"

	ProfileRoute      = "/profile"
	ProfilePhotoRoute = "/profile/photo"

	// Webhooks live outside the versioned API group; processors are
	// configured with the absolute path.
	PaymentWebhookRoute = "/webhooks/payment"
)
