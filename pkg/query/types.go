// Package query answers free-text questions about the clients of a user's
// route, deterministically when an intent matches and through the
// generative fallback otherwise.
package query

import (
	"context"
	"errors"

	"mondichat-be/pkg/classifier"
	"mondichat-be/pkg/reconciler"
)

// ReportMarker prefixes report text in a completion.
const ReportMarker = "[REPORTE]"

// Fixed replies.
const (
	MsgNoMoreItems = "No hay más resultados para mostrar. Pídeme una nueva lista cuando quieras."
	MsgNoMatches   = "No encontré clientes que coincidan con tu búsqueda."
	MsgApology     = "Lo siento, tuve un problema al procesar tu consulta. Intenta de nuevo en unos minutos."
	MsgReportSaved = "✅ Listo, registré tu reporte."
	MsgEmptyAudio  = "No pude entender el audio. ¿Puedes repetirlo o escribirlo?"
	MsgEmptyText   = "¿En qué te puedo ayudar con tu ruta?"
	MsgNoRoute     = "No tienes una ruta asignada todavía. Consulta con tu supervisor."
	MsgMoreHint    = "👉 Escribe *ver más* para ver los siguientes %d."
)

// ErrRouteNotFound is returned by Store.FindUserRoute for unassigned users.
var ErrRouteNotFound = errors.New("user route not found")

// Route is the assignment of a user.
type Route struct {
	RouteCode       string
	QuotaPercentage float64
}

// Store reads the current snapshot.
type Store interface {
	FindUserRoute(ctx context.Context, userId string) (*Route, error)
	// FindByRoute returns the route's records, newest upload first.
	FindByRoute(ctx context.Context, routeCode string, limit int) ([]reconciler.Record, error)
}

// ReportSink stores reports extracted from completions.
type ReportSink interface {
	CreateReport(ctx context.Context, userId, content string) error
}

// Logger matches the service logger.
type Logger interface {
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
}

// Client is a record of the route with its classification.
type Client struct {
	Code    string
	Name    string
	Day     string
	Summary classifier.ClientSummary
}

// Request is one incoming question.
type Request struct {
	UserId  string
	Text    string
	IsAudio bool
}
