package mapper

import (
	"time"

	"mondichat-be/internal/entity"
	"mondichat-be/internal/model"
	"mondichat-be/pkg/reconciler"

	"gorm.io/datatypes"
)

type ClientRouteMapper struct{}

func NewClientRouteMapper() *ClientRouteMapper {
	return &ClientRouteMapper{}
}

func (m *ClientRouteMapper) ToEntity(c *model.ClientRoute) *entity.ClientRoute {
	if c == nil {
		return nil
	}
	attrs := c.Attributes.Data()
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &entity.ClientRoute{
		Id:         c.Id,
		RouteCode:  c.RouteCode,
		ClientCode: c.ClientCode,
		ClientName: c.ClientName,
		VisitDay:   c.VisitDay,
		Attributes: attrs,
		BatchId:    c.BatchId,
		UploadedAt: c.UploadedAt,
	}
}

func (m *ClientRouteMapper) ToModel(c *entity.ClientRoute) *model.ClientRoute {
	if c == nil {
		return nil
	}
	return &model.ClientRoute{
		Id:         c.Id,
		RouteCode:  c.RouteCode,
		ClientCode: c.ClientCode,
		ClientName: c.ClientName,
		VisitDay:   c.VisitDay,
		Attributes: datatypes.NewJSONType(c.Attributes),
		BatchId:    c.BatchId,
		UploadedAt: c.UploadedAt,
	}
}

func (m *ClientRouteMapper) ToEntities(rows []*model.ClientRoute) []*entity.ClientRoute {
	entities := make([]*entity.ClientRoute, len(rows))
	for i, r := range rows {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

func (m *ClientRouteMapper) ToModels(rows []*entity.ClientRoute) []*model.ClientRoute {
	models := make([]*model.ClientRoute, len(rows))
	for i, r := range rows {
		models[i] = m.ToModel(r)
	}
	return models
}

// FromRecord converts a reconciled record into a storable entity.
func (m *ClientRouteMapper) FromRecord(r reconciler.Record) *entity.ClientRoute {
	return &entity.ClientRoute{
		RouteCode:  r.RouteCode,
		ClientCode: r.ClientCode,
		ClientName: r.ClientName,
		VisitDay:   r.VisitDay,
		Attributes: r.Attributes,
		BatchId:    r.BatchId,
		UploadedAt: r.UploadedAt,
	}
}

func (m *ClientRouteMapper) ToRecord(c *entity.ClientRoute) reconciler.Record {
	return reconciler.Record{
		RouteCode:  c.RouteCode,
		ClientCode: c.ClientCode,
		ClientName: c.ClientName,
		VisitDay:   c.VisitDay,
		Attributes: c.Attributes,
		BatchId:    c.BatchId,
		UploadedAt: c.UploadedAt,
	}
}

type UserRouteMapper struct{}

func NewUserRouteMapper() *UserRouteMapper {
	return &UserRouteMapper{}
}

func (m *UserRouteMapper) ToEntity(u *model.UserRoute) *entity.UserRoute {
	if u == nil {
		return nil
	}
	var updatedAt *time.Time
	if !u.UpdatedAt.IsZero() {
		t := u.UpdatedAt
		updatedAt = &t
	}
	return &entity.UserRoute{
		UserId:          u.UserId,
		RouteCode:       u.RouteCode,
		QuotaPercentage: u.QuotaPercentage,
		UpdatedAt:       updatedAt,
	}
}

func (m *UserRouteMapper) ToModel(u *entity.UserRoute) *model.UserRoute {
	if u == nil {
		return nil
	}
	return &model.UserRoute{
		UserId:          u.UserId,
		RouteCode:       u.RouteCode,
		QuotaPercentage: u.QuotaPercentage,
	}
}

type ReportMapper struct{}

func NewReportMapper() *ReportMapper {
	return &ReportMapper{}
}

func (m *ReportMapper) ToEntity(r *model.Report) *entity.Report {
	if r == nil {
		return nil
	}
	return &entity.Report{Id: r.Id, UserId: r.UserId, Content: r.Content, CreatedAt: r.CreatedAt}
}

func (m *ReportMapper) ToModel(r *entity.Report) *model.Report {
	if r == nil {
		return nil
	}
	return &model.Report{Id: r.Id, UserId: r.UserId, Content: r.Content, CreatedAt: r.CreatedAt}
}

func (m *ReportMapper) ToEntities(rows []*model.Report) []*entity.Report {
	entities := make([]*entity.Report, len(rows))
	for i, r := range rows {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
