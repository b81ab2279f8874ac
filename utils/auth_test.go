package utils

import (
	"testing"

	"nutriconnect-server/config"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	token, err := GenerateToken(42, "client")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	claims, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken returned error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != "client" {
		t.Errorf("Role = %q, want client", claims.Role)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		if _, err := VerifyToken(token); err == nil {
			t.Errorf("VerifyToken(%q) succeeded, want error", token)
		}
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(7, "dietitian")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	original := config.AppConfig.JWT.Secret
	config.AppConfig.JWT.Secret = "a-different-secret"
	defer func() { config.AppConfig.JWT.Secret = original }()

	if _, err := VerifyToken(token); err == nil {
		t.Error("VerifyToken accepted a token signed with another secret")
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	original := config.AppConfig.JWT.ExpiryHours
	config.AppConfig.JWT.ExpiryHours = -1
	token, err := GenerateToken(7, "client")
	config.AppConfig.JWT.ExpiryHours = original
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := VerifyToken(token); err == nil {
		t.Error("VerifyToken accepted an expired token")
	}
}
