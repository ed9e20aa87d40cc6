package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ClientRoute struct {
	Id         uuid.UUID                             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RouteCode  string                                `gorm:"type:varchar(64);index"`
	ClientCode string                                `gorm:"type:varchar(64);not null"`
	ClientName string                                `gorm:"type:varchar(255)"`
	VisitDay   string                                `gorm:"type:varchar(64)"`
	Attributes datatypes.JSONType[map[string]string] `gorm:"type:jsonb"`
	BatchId    string                                `gorm:"type:varchar(32);not null;index"`
	UploadedAt time.Time                             `gorm:"not null;index"`
}

func (ClientRoute) TableName() string {
	return "client_routes"
}
