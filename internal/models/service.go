package models

import (
	"time"

	"github.com/google/uuid"
)

type Service struct {
	ID          uuid.UUID
	CreatorID   uuid.UUID
	Title       string
	Price       float64
	Description string
	Tags        []string
	CoverURL    string
	CreatedAt   time.Time
}
