package services

import (
	"testing"

	"github.com/eduhire/backend/internal/models"
)

func TestTransitionAllowed(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"pending to shortlisted", models.ApplicationPending, models.ApplicationShortlisted, true},
		{"pending to accepted", models.ApplicationPending, models.ApplicationAccepted, true},
		{"pending to rejected", models.ApplicationPending, models.ApplicationRejected, true},
		{"shortlisted to accepted", models.ApplicationShortlisted, models.ApplicationAccepted, true},
		{"shortlisted to rejected", models.ApplicationShortlisted, models.ApplicationRejected, true},
		{"accepted is terminal", models.ApplicationAccepted, models.ApplicationRejected, false},
		{"rejected is terminal", models.ApplicationRejected, models.ApplicationAccepted, false},
		{"no self transition", models.ApplicationPending, models.ApplicationPending, false},
		{"unknown status", "archived", models.ApplicationAccepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transitionAllowed(tt.from, tt.to)
			if got != tt.want {
				t.Errorf("transitionAllowed(%q, %q) = %v, expected %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
