package models

import "time"

type ServiceResponse struct {
	ID          string    `json:"id"`
	CreatorID   string    `json:"creator_id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

type OrderResponse struct {
	ID                 string                 `json:"order_id"`
	BuyerID            string                 `json:"buyer_id"`
	ServiceOwnerID     string                 `json:"service_owner_id"`
	ServiceID          string                 `json:"service_id,omitempty"`
	Amount             float64                `json:"amount,omitempty"`
	Status             string                 `json:"status"`
	ServiceSnapshot    map[string]interface{} `json:"service_snapshot,omitempty"`
	Role               string                 `json:"role"`
	Versions           []VersionResponse      `json:"versions,omitempty"`
	RemainingRevisions int                    `json:"remaining_revisions"`
	MaxRevisions       int                    `json:"max_revisions"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

type OrderListResponse struct {
	Orders []OrderSummary `json:"orders"`
}

type OrderSummary struct {
	ID              string                 `json:"order_id"`
	Status          string                 `json:"status"`
	Amount          float64                `json:"amount,omitempty"`
	ServiceSnapshot map[string]interface{} `json:"service_snapshot,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

type VersionResponse struct {
	ID            string                 `json:"id"`
	OrderID       string                 `json:"order_id"`
	VersionNumber int                    `json:"version_number"`
	ContentURL    string                 `json:"content_url"`
	PromptData    map[string]interface{} `json:"prompt_data,omitempty"`
	CreatorNotes  string                 `json:"creator_notes"`
	BuyerFeedback string                 `json:"buyer_feedback,omitempty"`
	Status        string                 `json:"status"`
	CreatedAt     time.Time              `json:"created_at"`
}

type VersionListResponse struct {
	Versions []VersionResponse `json:"versions"`
}

type MessageResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type MessageListResponse struct {
	Messages []MessageResponse `json:"messages"`
}

type ProfileResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
