package services

import (
	"testing"
)

func TestLoginRequest_Structure(t *testing.T) {
	req := LoginRequest{
		Email:    "teacher@example.com",
		Password: "password123",
	}

	if req.Email != "teacher@example.com" {
		t.Errorf("Email = %q, expected %q", req.Email, "teacher@example.com")
	}
	if req.Password != "password123" {
		t.Errorf("Password = %q, expected %q", req.Password, "password123")
	}
}

func TestChangePasswordRequest_Structure(t *testing.T) {
	req := ChangePasswordRequest{
		OldPassword: "oldpass",
		NewPassword: "newpass123",
	}

	if req.OldPassword != "oldpass" {
		t.Errorf("OldPassword = %q, expected %q", req.OldPassword, "oldpass")
	}
	if req.NewPassword != "newpass123" {
		t.Errorf("NewPassword = %q, expected %q", req.NewPassword, "newpass123")
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	token, hash, err := generateRefreshToken()
	if err != nil {
		t.Fatalf("generateRefreshToken() error: %v", err)
	}

	if len(token) != 64 {
		t.Errorf("token length = %d, expected 64 hex chars", len(token))
	}
	if len(hash) != 64 {
		t.Errorf("hash length = %d, expected 64 hex chars", len(hash))
	}
	if hash != hashRefreshToken(token) {
		t.Error("hash does not match hashRefreshToken(token)")
	}
}

func TestGenerateRefreshToken_Unique(t *testing.T) {
	first, _, err := generateRefreshToken()
	if err != nil {
		t.Fatalf("generateRefreshToken() error: %v", err)
	}
	second, _, err := generateRefreshToken()
	if err != nil {
		t.Fatalf("generateRefreshToken() error: %v", err)
	}

	if first == second {
		t.Error("two generated tokens should not be equal")
	}
}

func TestHashRefreshToken_Deterministic(t *testing.T) {
	token := "abc123"

	if hashRefreshToken(token) != hashRefreshToken(token) {
		t.Error("hashing the same token twice should give the same hash")
	}
	if hashRefreshToken(token) == hashRefreshToken("abc124") {
		t.Error("different tokens should hash differently")
	}
}
