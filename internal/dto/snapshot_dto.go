package dto

import "time"

// UploadSnapshotResponse is returned by the upload endpoint on success.
type UploadSnapshotResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	BatchId string `json:"batch_id"`
	Skipped int    `json:"skipped"`
}

// UploadErrorResponse is returned with HTTP 400 for malformed uploads.
type UploadErrorResponse struct {
	Error string `json:"error"`
}

type AssignRouteRequest struct {
	UserId          string
	RouteCode       string  `json:"route_code" validate:"required,max=64"`
	QuotaPercentage float64 `json:"quota_percentage" validate:"gte=0,lte=1000"`
}

type AssignRouteResponse struct {
	UserId          string     `json:"user_id"`
	RouteCode       string     `json:"route_code"`
	QuotaPercentage float64    `json:"quota_percentage"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

type SnapshotStatusResponse struct {
	Total    int64 `json:"total"`
	Migrated bool  `json:"migrated"`
}
