package services

import (
	"strings"
	"testing"

	"github.com/eduhire/backend/internal/config"
	"github.com/eduhire/backend/internal/models"
)

func TestGetConfig_FallsBackToStaticSMTP(t *testing.T) {
	db := openTestDB(t)

	previous := config.GlobalConfig
	config.GlobalConfig = &config.Config{
		SMTP: config.SMTPConfig{
			Host:     "smtp.example.com",
			Port:     2525,
			Username: "relay-user",
			Password: "relay-pass",
			From:     "noreply@example.com",
			UseTLS:   true,
		},
	}
	defer func() { config.GlobalConfig = previous }()

	svc := NewEmailService(db)
	cfg := svc.GetConfig()

	if cfg.Host != "smtp.example.com" {
		t.Errorf("Host = %q, expected static config host", cfg.Host)
	}
	if cfg.Port != 2525 {
		t.Errorf("Port = %d, expected 2525", cfg.Port)
	}
	if cfg.Username != "relay-user" || cfg.Password != "relay-pass" {
		t.Error("credentials should come from the static smtp section")
	}
	if cfg.From != "noreply@example.com" {
		t.Errorf("From = %q, expected static config sender", cfg.From)
	}
	if !cfg.UseTLS {
		t.Error("UseTLS should come from the static smtp section")
	}
	if cfg.Enabled {
		t.Error("Enabled must stay off until set in system_configs")
	}
}

func TestGetConfig_RuntimeSettingsOverrideStatic(t *testing.T) {
	db := openTestDB(t)

	previous := config.GlobalConfig
	config.GlobalConfig = &config.Config{
		SMTP: config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"},
	}
	defer func() { config.GlobalConfig = previous }()

	runtime := []models.SystemConfig{
		{Key: "email_enabled", Value: "true", Type: "bool", Group: "email"},
		{Key: "email_host", Value: "smtp.override.example", Type: "string", Group: "email"},
		// Empty values must not override the static defaults.
		{Key: "email_from", Value: "", Type: "string", Group: "email"},
	}
	for i := range runtime {
		if err := db.Create(&runtime[i]).Error; err != nil {
			t.Fatalf("failed to seed system config: %v", err)
		}
	}

	cfg := NewEmailService(db).GetConfig()

	if !cfg.Enabled {
		t.Error("Enabled = false, expected runtime value true")
	}
	if cfg.Host != "smtp.override.example" {
		t.Errorf("Host = %q, expected runtime override", cfg.Host)
	}
	if cfg.From != "noreply@example.com" {
		t.Errorf("From = %q, empty runtime value should keep the static sender", cfg.From)
	}
	if cfg.Port != 587 {
		t.Errorf("Port = %d, expected 587", cfg.Port)
	}
}

func TestBuildDecisionBody_Flagged(t *testing.T) {
	svc := &EmailService{}
	body := svc.buildDecisionBody(&NotificationTask{
		ReviewID: 1,
		Decision: "flagged",
		Reason:   "inappropriate language in the comment",
	})

	if !strings.Contains(body, "inappropriate language in the comment") {
		t.Error("flagged body should include the flag reason")
	}
	// Editing does not change the status; only a moderator approval restores
	// visibility, and the copy must say so.
	if !strings.Contains(body, "until a moderator approves") {
		t.Error("flagged body should explain that a moderator must approve again")
	}
}

func TestBuildDecisionBody_Approved(t *testing.T) {
	svc := &EmailService{}
	body := svc.buildDecisionBody(&NotificationTask{ReviewID: 1, Decision: "approved"})

	if !strings.Contains(body, "passed moderation") {
		t.Error("approved body should announce the review is published")
	}
	if strings.Contains(body, "Reason") {
		t.Error("approved body should not carry a flag reason")
	}
}
