package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusDelivered  = "delivered"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

const (
	VersionStatusPendingReview = "pending_review"
	VersionStatusRejected      = "rejected"
	VersionStatusApproved      = "approved"
)

type Order struct {
	ID              uuid.UUID
	BuyerID         uuid.UUID
	ServiceOwnerID  uuid.UUID
	ServiceID       uuid.NullUUID
	Amount          sql.NullFloat64
	Status          string
	ServiceSnapshot json.RawMessage
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderVersion struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	VersionNumber int
	ContentURL    string
	PromptData    json.RawMessage
	CreatorNotes  string
	BuyerFeedback sql.NullString
	Status        string
	CreatedAt     time.Time
}

type Message struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	SenderID  uuid.UUID
	Content   string
	CreatedAt time.Time
}
