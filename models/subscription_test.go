package models

import "testing"

func TestUnlimited(t *testing.T) {
	if !Unlimited(-1) {
		t.Error("Unlimited(-1) = false, want true")
	}
	if Unlimited(0) || Unlimited(5) {
		t.Error("non-negative limits must not be unlimited")
	}
}

func TestLimitsForPlan(t *testing.T) {
	tests := []struct {
		plan        PlanType
		monthly     int
		advanceDays int
	}{
		{PlanFree, -1, -1},
		{PlanBasic, 5, 7},
		{PlanPremium, 15, 30},
		{PlanUltimate, -1, -1},
	}

	for _, tt := range tests {
		limits := LimitsForPlan(tt.plan)
		if limits.PlanType != tt.plan {
			t.Errorf("LimitsForPlan(%q).PlanType = %q", tt.plan, limits.PlanType)
		}
		if limits.MonthlyBookings != tt.monthly {
			t.Errorf("LimitsForPlan(%q).MonthlyBookings = %d, want %d", tt.plan, limits.MonthlyBookings, tt.monthly)
		}
		if limits.AdvanceBookingDays != tt.advanceDays {
			t.Errorf("LimitsForPlan(%q).AdvanceBookingDays = %d, want %d", tt.plan, limits.AdvanceBookingDays, tt.advanceDays)
		}
	}
}

func TestLimitsForPlanUnknownFallsBackToFree(t *testing.T) {
	limits := LimitsForPlan("enterprise")
	if limits.PlanType != PlanFree {
		t.Errorf("unknown plan resolved to %q, want free", limits.PlanType)
	}
}
