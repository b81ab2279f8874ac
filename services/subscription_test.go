package services

import (
	"testing"
	"time"

	"nutriconnect-server/models"
)

func TestCheckPlanLimitsMonthly(t *testing.T) {
	limits := models.LimitsForPlan(models.PlanBasic) // 5 monthly, 7 advance days
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	tomorrow := now.Add(24 * time.Hour)

	if v := CheckPlanLimits(limits, 4, now, tomorrow); v != nil {
		t.Errorf("4 of 5 bookings rejected: %+v", v)
	}

	v := CheckPlanLimits(limits, 5, now, tomorrow)
	if v == nil {
		t.Fatal("5 of 5 bookings passed, want monthly limit violation")
	}
	if v.Reason != ViolationMonthlyLimit {
		t.Errorf("Reason = %q, want %q", v.Reason, ViolationMonthlyLimit)
	}
	if v.CurrentCount != 5 || v.Limit != 5 {
		t.Errorf("violation counts = %d/%d, want 5/5", v.CurrentCount, v.Limit)
	}
	if v.Plan != models.PlanBasic {
		t.Errorf("Plan = %q, want basic", v.Plan)
	}
}

func TestCheckPlanLimitsAdvanceWindow(t *testing.T) {
	limits := models.LimitsForPlan(models.PlanBasic)
	now := time.Date(2025, 4, 10, 23, 0, 0, 0, time.UTC)

	// Exactly at the window boundary passes; one day past it is rejected.
	// Days are whole UTC calendar days, so late-evening "now" must not
	// shrink the window.
	atBoundary := time.Date(2025, 4, 17, 0, 0, 0, 0, time.UTC)
	if v := CheckPlanLimits(limits, 0, now, atBoundary); v != nil {
		t.Errorf("booking 7 days out rejected on a 7-day plan: %+v", v)
	}

	past := time.Date(2025, 4, 18, 0, 0, 0, 0, time.UTC)
	v := CheckPlanLimits(limits, 0, now, past)
	if v == nil {
		t.Fatal("booking 8 days out passed on a 7-day plan")
	}
	if v.Reason != ViolationAdvanceWindow {
		t.Errorf("Reason = %q, want %q", v.Reason, ViolationAdvanceWindow)
	}
	if v.AdvanceDays != 8 || v.MaxAdvanceDays != 7 {
		t.Errorf("violation window = %d/%d, want 8/7", v.AdvanceDays, v.MaxAdvanceDays)
	}
}

func TestCheckPlanLimitsMonthlyCheckedFirst(t *testing.T) {
	// When both limits are exceeded the monthly violation wins
	limits := models.LimitsForPlan(models.PlanBasic)
	now := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	farOut := now.Add(30 * 24 * time.Hour)

	v := CheckPlanLimits(limits, 9, now, farOut)
	if v == nil || v.Reason != ViolationMonthlyLimit {
		t.Errorf("violation = %+v, want monthly limit", v)
	}
}

func TestCheckPlanLimitsUnlimited(t *testing.T) {
	limits := models.LimitsForPlan(models.PlanUltimate)
	now := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	farOut := now.Add(365 * 24 * time.Hour)

	if v := CheckPlanLimits(limits, 1000, now, farOut); v != nil {
		t.Errorf("unlimited plan rejected: %+v", v)
	}
}

func TestLimitViolationMessage(t *testing.T) {
	monthly := &LimitViolation{Reason: ViolationMonthlyLimit}
	if msg := monthly.Message(); msg != "Monthly booking limit reached for your plan" {
		t.Errorf("monthly message = %q", msg)
	}

	window := &LimitViolation{Reason: ViolationAdvanceWindow}
	if msg := window.Message(); msg != "Requested date is beyond your plan's advance booking window" {
		t.Errorf("advance window message = %q", msg)
	}
}
