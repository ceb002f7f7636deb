package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleTeacher     = "teacher"
	RoleInstitution = "institution"
	RoleAdmin       = "admin"
)

// User represents a platform account (teacher, institution or admin)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string         `gorm:"size:255" json:"-"` // bcrypt hash
	Name      string         `gorm:"size:200" json:"name"`
	Role      string         `gorm:"size:50;not null" json:"role"` // teacher, institution, admin
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time     `json:"last_login"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TeacherProfile is the public profile of a teacher account. It carries the
// materialized aggregate rating: a derived summary of the approved reviews for
// this teacher, replaced wholesale on every recomputation (never patched).
type TeacherProfile struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	User       *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Headline   string `gorm:"size:300" json:"headline"`
	Subjects   string `gorm:"size:500" json:"subjects"` // comma-separated
	Experience int    `json:"experience_years"`
	Bio        string `gorm:"type:text" json:"bio"`

	AverageRating      float64            `gorm:"default:0" json:"average_rating"`
	TotalReviews       int                `gorm:"default:0" json:"total_reviews"`
	RatingDistribution RatingDistribution `gorm:"type:text" json:"rating_distribution"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// InstitutionProfile is the public profile of an institution account, with the
// same materialized aggregate rating as TeacherProfile.
type InstitutionProfile struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	User        *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Name        string `gorm:"size:300" json:"name"`
	City        string `gorm:"size:200" json:"city"`
	Website     string `gorm:"size:500" json:"website"`
	Description string `gorm:"type:text" json:"description"`

	AverageRating      float64            `gorm:"default:0" json:"average_rating"`
	TotalReviews       int                `gorm:"default:0" json:"total_reviews"`
	RatingDistribution RatingDistribution `gorm:"type:text" json:"rating_distribution"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Job is the minimal posting entity applications reference.
type Job struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	InstitutionID uint           `gorm:"index;not null" json:"institution_id"`
	Title         string         `gorm:"size:300;not null" json:"title"`
	Subject       string         `gorm:"size:200" json:"subject"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// Application statuses
const (
	ApplicationPending     = "pending"
	ApplicationShortlisted = "shortlisted"
	ApplicationAccepted    = "accepted"
	ApplicationRejected    = "rejected"
)

// Application links a teacher to an institution's job. An accepted application
// is the hiring relationship that entitles the institution to review the teacher.
type Application struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	JobID         uint   `gorm:"not null;uniqueIndex:idx_job_teacher" json:"job_id"`
	Job           *Job   `gorm:"foreignKey:JobID" json:"job,omitempty"`
	TeacherID     uint   `gorm:"not null;index;uniqueIndex:idx_job_teacher" json:"teacher_id"`
	InstitutionID uint   `gorm:"not null;index" json:"institution_id"`
	CoverLetter   string `gorm:"size:3000;not null" json:"cover_letter"`
	Status        string `gorm:"size:50;default:pending;index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"index;not null" json:"user_id"`
	TokenHash         string     `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt         time.Time  `gorm:"index;not null" json:"expires_at"`
	RevokedAt         *time.Time `gorm:"index" json:"revoked_at,omitempty"`
	ReplacedByTokenID *uint      `gorm:"index" json:"replaced_by_token_id,omitempty"`
	CreatedByIP       string     `gorm:"size:64" json:"created_by_ip,omitempty"`
	UserAgent         string     `gorm:"size:255" json:"user_agent,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// SystemConfig represents runtime-tunable configuration (stored in database)
type SystemConfig struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	Type      string    `gorm:"size:20;default:string" json:"type"` // string, int, bool
	Group     string    `gorm:"size:50;index" json:"group"`         // review, email, system
	Label     string    `gorm:"size:200" json:"label"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SystemLog represents a system operation log entry
type SystemLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Level     string    `gorm:"size:20;index" json:"level"` // info, warning, error
	Module    string    `gorm:"size:100;index" json:"module"`
	Action    string    `gorm:"size:200;index" json:"action"`
	Message   string    `gorm:"type:text" json:"message"`
	UserID    *uint     `json:"user_id"`
	IP        string    `gorm:"size:50" json:"ip"`
	UserAgent string    `gorm:"size:500" json:"user_agent"`
	Extra     string    `gorm:"type:text" json:"extra"` // JSON extra data
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides
func (User) TableName() string               { return "users" }
func (TeacherProfile) TableName() string     { return "teacher_profiles" }
func (InstitutionProfile) TableName() string { return "institution_profiles" }
func (Job) TableName() string                { return "jobs" }
func (Application) TableName() string        { return "applications" }
func (RefreshToken) TableName() string       { return "refresh_tokens" }
func (SystemConfig) TableName() string       { return "system_configs" }
func (SystemLog) TableName() string          { return "system_logs" }
