package models

import (
	"time"
)

// Status tracks a photo through capture, AI processing and moderation.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// AllStatuses lists every status a photo row can hold.
var AllStatuses = []Status{
	StatusPending,
	StatusCompleted,
	StatusFailed,
	StatusApproved,
	StatusRejected,
}

// IsTerminal reports whether a moderation decision has been made.
// Terminal photos never transition again.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Valid reports whether s is one of the five known statuses.
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Photo struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	OriginalURL     string     `json:"original_url" gorm:"not null"`
	CartoonURL      *string    `json:"cartoon_url,omitempty"`
	Status          Status     `json:"status" gorm:"not null;default:'pending';index"`
	CreatedAt       time.Time  `json:"created_at" gorm:"index"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	UserSession     string     `json:"user_session,omitempty"`
	ProcessingError *string    `json:"processing_error,omitempty"`
	Caption         string     `json:"caption,omitempty"`
	AIDescription   *string    `json:"ai_description,omitempty" gorm:"column:ai_description"`
}

func (Photo) TableName() string {
	return "photos"
}

// DisplayURL resolves the image the wall should show: the cartoon when the
// AI produced one, the original otherwise (the skip-AI path).
func (p *Photo) DisplayURL() string {
	if p.CartoonURL != nil && *p.CartoonURL != "" {
		return *p.CartoonURL
	}
	return p.OriginalURL
}
