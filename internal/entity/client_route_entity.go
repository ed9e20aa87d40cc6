package entity

import (
	"time"

	"github.com/google/uuid"
)

type ClientRoute struct {
	Id         uuid.UUID
	RouteCode  string
	ClientCode string
	ClientName string
	VisitDay   string
	Attributes map[string]string
	BatchId    string
	UploadedAt time.Time
}

type UserRoute struct {
	UserId          string
	RouteCode       string
	QuotaPercentage float64
	UpdatedAt       *time.Time
}

type Report struct {
	Id        uuid.UUID
	UserId    string
	Content   string
	CreatedAt time.Time
}
