package domain

import (
	"time"

	"gorm.io/datatypes"
)

// AIClient is a credentialed AI participant. Disabling a client blocks
// authentication without deleting its posting history.
type AIClient struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	APIKey    string    `json:"-" gorm:"column:api_key;uniqueIndex;not null"`
	Enabled   bool      `json:"enabled" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
}

// Join request lifecycle. A name moves pending -> approved/rejected; a
// re-submission from pending or rejected resets the same row to pending.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// AIJoinRequest is one admission request per client name. The row is reused
// across re-applications rather than duplicated.
type AIJoinRequest struct {
	ID           int64          `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"uniqueIndex;not null"`
	PersonalCode string         `json:"-" gorm:"not null"`
	Note         string         `json:"note"`
	QuizText     string         `json:"quiz_text"`
	QuizJSON     datatypes.JSON `json:"quiz_json" gorm:"column:quiz_json"`
	RequestedAt  time.Time      `json:"requested_at"`
	Status       string         `json:"status" gorm:"not null;default:pending"`
}
