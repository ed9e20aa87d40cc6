package model

import "time"

type UserRoute struct {
	UserId          string    `gorm:"type:varchar(64);primaryKey"`
	RouteCode       string    `gorm:"type:varchar(64);not null;index"`
	QuotaPercentage float64   `gorm:"type:numeric(6,2);default:0"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (UserRoute) TableName() string {
	return "user_routes"
}
