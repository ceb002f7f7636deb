package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Review statuses. Only approved reviews are publicly visible and counted
// toward aggregate ratings.
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewFlagged  = "flagged"
)

// Reviewed entity types
const (
	EntityTeacher     = "Teacher"
	EntityInstitution = "Institution"
)

// Review is a rating + comment left by one user about a teacher or institution
// profile. At most one review exists per (reviewer, reviewed entity) pair; the
// composite unique index enforces this at the store so concurrent duplicate
// submissions cannot both succeed.
type Review struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	Rating           int    `gorm:"not null" json:"rating"`                // 1..5
	Comment          string `gorm:"size:1000;not null" json:"comment"`     // 10..1000 chars
	ReviewerID       uint   `gorm:"not null;uniqueIndex:idx_reviewer_entity" json:"reviewer_id"`
	Reviewer         *User  `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	ReviewedEntityID uint   `gorm:"not null;index:idx_entity_lookup;uniqueIndex:idx_reviewer_entity" json:"reviewed_entity_id"`
	// Teacher or Institution; discriminates which profile aggregate the review
	// contributes to.
	ReviewedEntityType string `gorm:"size:20;not null;index:idx_entity_lookup" json:"reviewed_entity_type"`
	Status             string `gorm:"size:20;default:approved;index" json:"status"`
	FlagReason         string `gorm:"size:1000" json:"flag_reason,omitempty"`
	HelpfulCount       int    `gorm:"default:0" json:"helpful_count"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string { return "reviews" }

// AggregateRating is the derived summary materialized onto the reviewed
// profile. It is always a deterministic function of the current approved
// review set; never the source of truth.
type AggregateRating struct {
	AverageRating      float64            `json:"average_rating"`
	TotalReviews       int                `json:"total_reviews"`
	RatingDistribution RatingDistribution `json:"rating_distribution"`
}

// RatingDistribution maps a rating value (1..5) to the count of approved
// reviews at that value. Stored as JSON text.
type RatingDistribution map[int]int

// EmptyDistribution returns a distribution with all five buckets at zero.
func EmptyDistribution() RatingDistribution {
	return RatingDistribution{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
}

// Value implements driver.Valuer so the map can live in a text column.
func (d RatingDistribution) Value() (driver.Value, error) {
	if d == nil {
		d = EmptyDistribution()
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (d *RatingDistribution) Scan(value interface{}) error {
	if value == nil {
		*d = EmptyDistribution()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into RatingDistribution", value)
	}

	if len(data) == 0 {
		*d = EmptyDistribution()
		return nil
	}
	return json.Unmarshal(data, d)
}
