package reconciler

import (
	"fmt"
	"strings"
	"time"
)

// RawTable is the upload as parsed rows of text cells.
type RawTable [][]string

// HeaderMap holds one resolved key per input column. An empty key marks the
// column as ignored.
type HeaderMap []string

// Core keys. Every other resolved key is dynamic and lands in Attributes.
const (
	KeyRouteCode  = "ROUTE_CODE"
	KeyClientCode = "CLIENT_CODE"
	KeyClientName = "CLIENT_NAME"
	KeyVisitDay   = "VISIT_DAY"
)

func isCoreKey(key string) bool {
	switch key {
	case KeyRouteCode, KeyClientCode, KeyClientName, KeyVisitDay:
		return true
	}
	return false
}

// Layout selects how many header rows an upload carries.
type Layout string

const (
	// LayoutSingle has one header row.
	LayoutSingle Layout = "single"
	// LayoutCategory has a category row followed by a sub-header row.
	LayoutCategory Layout = "category"
	// LayoutFallback has category, header and a fallback header used when the
	// header cell is blank.
	LayoutFallback Layout = "fallback"
)

// ParseLayout maps a caller-supplied layout name. Empty selects LayoutSingle.
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case "", LayoutSingle:
		return LayoutSingle, nil
	case LayoutCategory:
		return LayoutCategory, nil
	case LayoutFallback:
		return LayoutFallback, nil
	}
	return "", &MalformedUploadError{Reason: fmt.Sprintf("unknown layout %q", s)}
}

// Record is one canonical client row of a snapshot.
type Record struct {
	RouteCode  string
	ClientCode string
	ClientName string
	VisitDay   string
	Attributes map[string]string
	BatchId    string
	UploadedAt time.Time
}

// Result is the outcome of reconciling one upload.
type Result struct {
	BatchId    string
	UploadedAt time.Time
	Layout     Layout
	Headers    HeaderMap
	Records    []Record
	// Skipped counts data rows dropped for missing identity fields.
	Skipped int
}

// MalformedUploadError rejects an upload before anything is written.
type MalformedUploadError struct {
	Reason   string
	Rows     int
	Required int
}

func (e *MalformedUploadError) Error() string {
	if e.Required > 0 {
		return fmt.Sprintf("malformed upload: %s (got %d rows, need at least %d)", e.Reason, e.Rows, e.Required)
	}
	return "malformed upload: " + e.Reason
}
