package middleware

import (
	"testing"

	"nutriconnect-server/models"
	"nutriconnect-server/services"
)

func TestLimitPayloadMonthly(t *testing.T) {
	payload := LimitPayload(&services.LimitViolation{
		Reason:       services.ViolationMonthlyLimit,
		Plan:         models.PlanBasic,
		CurrentCount: 5,
		Limit:        5,
	})

	if payload["limitReached"] != true {
		t.Error("limitReached missing or false")
	}
	if payload["plan"] != models.PlanBasic {
		t.Errorf("plan = %v, want basic", payload["plan"])
	}
	if payload["currentCount"] != int64(5) || payload["limit"] != 5 {
		t.Errorf("counts = %v/%v, want 5/5", payload["currentCount"], payload["limit"])
	}
	if _, ok := payload["advanceDays"]; ok {
		t.Error("monthly payload must not carry advance-window fields")
	}
}

func TestLimitPayloadAdvanceWindow(t *testing.T) {
	payload := LimitPayload(&services.LimitViolation{
		Reason:         services.ViolationAdvanceWindow,
		Plan:           models.PlanPremium,
		AdvanceDays:    45,
		MaxAdvanceDays: 30,
	})

	if payload["advanceDays"] != 45 || payload["maxAdvanceDays"] != 30 {
		t.Errorf("window = %v/%v, want 45/30", payload["advanceDays"], payload["maxAdvanceDays"])
	}
	if _, ok := payload["currentCount"]; ok {
		t.Error("advance-window payload must not carry monthly fields")
	}
}
