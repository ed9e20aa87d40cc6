package specification

import "gorm.io/gorm"

// ByRouteCode filters client records of one route.
type ByRouteCode struct {
	RouteCode string
}

func (s ByRouteCode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("route_code = ?", s.RouteCode)
}

// ByBatch filters client records of one upload.
type ByBatch struct {
	BatchId string
}

func (s ByBatch) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("batch_id = ?", s.BatchId)
}

// ByUserId filters rows owned by a user.
type ByUserId struct {
	UserId string
}

func (s ByUserId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}

// NewestUploadFirst orders client records by upload time, then client code.
func NewestUploadFirst() []Specification {
	return []Specification{
		OrderBy{Field: "uploaded_at", Desc: true},
		OrderBy{Field: "client_code"},
	}
}
