package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID          uuid.UUID
	DisplayName sql.NullString
	AvatarURL   sql.NullString
	Bio         sql.NullString
	CreatedAt   time.Time
}
