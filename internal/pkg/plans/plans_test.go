package plans

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Plan
	}{
		{in: "basic", want: PlanBasic},
		{in: "fashion", want: PlanFashion},
		{in: "super", want: PlanSuper},
		{in: "master", want: PlanMaster},
		{in: "FASHION", want: PlanFashion},
		{in: "  super  ", want: PlanSuper},
		{in: "", want: PlanBasic},
		{in: "enterprise", want: PlanBasic},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCreditsFor(t *testing.T) {
	tests := []struct {
		plan Plan
		want int
	}{
		{plan: PlanBasic, want: 30},
		{plan: PlanFashion, want: 100},
		{plan: PlanSuper, want: 250},
		{plan: PlanMaster, want: 999999},
		{plan: Plan("unknown"), want: 30},
	}

	for _, tt := range tests {
		if got := CreditsFor(tt.plan); got != tt.want {
			t.Fatalf("CreditsFor(%q) = %d, want %d", tt.plan, got, tt.want)
		}
	}
}

func TestCommissionFor(t *testing.T) {
	tests := []struct {
		plan Plan
		want int
	}{
		{plan: PlanBasic, want: 10},
		{plan: PlanFashion, want: 25},
		{plan: PlanSuper, want: 50},
		// Plans missing from the commission table fall back to the lowest tier.
		{plan: PlanMaster, want: CommissionFallback},
		{plan: Plan("unknown"), want: CommissionFallback},
	}

	for _, tt := range tests {
		if got := CommissionFor(tt.plan); got != tt.want {
			t.Fatalf("CommissionFor(%q) = %d, want %d", tt.plan, got, tt.want)
		}
	}
}

func TestRankOrdering(t *testing.T) {
	if !(Rank(PlanBasic) < Rank(PlanFashion) && Rank(PlanFashion) < Rank(PlanSuper) && Rank(PlanSuper) < Rank(PlanMaster)) {
		t.Fatalf("plan ranks are not strictly increasing: basic=%d fashion=%d super=%d master=%d",
			Rank(PlanBasic), Rank(PlanFashion), Rank(PlanSuper), Rank(PlanMaster))
	}
}

func TestExpiryWindows(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	if got, want := PurchaseExpiry(now), now.AddDate(0, 0, 365); !got.Equal(want) {
		t.Fatalf("PurchaseExpiry = %v, want %v", got, want)
	}
	if got, want := CommissionExpiry(now), now.AddDate(0, 6, 0); !got.Equal(want) {
		t.Fatalf("CommissionExpiry = %v, want %v", got, want)
	}
}
