package model

import (
	"time"

	"github.com/google/uuid"
)

type Report struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    string    `gorm:"type:varchar(64);not null;index"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"default:now();not null;index"`
}

func (Report) TableName() string {
	return "reports"
}
