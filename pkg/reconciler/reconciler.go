// Package reconciler turns uploaded route sheets, whose header layout varies
// between uploads, into canonical client records.
package reconciler

import (
	"strings"
	"time"
)

// BatchIdLayout formats the upload timestamp used as batch id.
const BatchIdLayout = "20060102T150405.000000Z"

// Reconciler resolves headers and extracts records from a RawTable.
type Reconciler struct {
	now func() time.Time
}

// NewReconciler creates a reconciler stamping batches with the wall clock.
func NewReconciler() *Reconciler {
	return &Reconciler{now: time.Now}
}

// WithClock overrides the batch clock.
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

// Reconcile validates the row count for the layout, resolves the header map
// and extracts every valid data row. Rows missing identity fields are
// skipped, never reported as errors.
func (r *Reconciler) Reconcile(table RawTable, layout Layout) (*Result, error) {
	spec, ok := layouts[layout]
	if !ok {
		return nil, &MalformedUploadError{Reason: "unknown layout " + string(layout)}
	}
	if len(table) < spec.minRows {
		return nil, &MalformedUploadError{
			Reason:   "not enough rows for layout " + string(layout),
			Rows:     len(table),
			Required: spec.minRows,
		}
	}

	uploadedAt := r.now().UTC()
	result := &Result{
		BatchId:    uploadedAt.Format(BatchIdLayout),
		UploadedAt: uploadedAt,
		Layout:     layout,
		Headers:    BuildHeaderMap(layout, table),
	}

	for _, row := range table[spec.headerRows:] {
		rec := extractRecord(result.Headers, row)
		if !valid(spec, &rec) {
			result.Skipped++
			continue
		}
		rec.BatchId = result.BatchId
		rec.UploadedAt = uploadedAt
		result.Records = append(result.Records, rec)
	}
	return result, nil
}

// extractRecord reads core fields first so a core column always wins over the
// attribute bag, then collects the dynamic attributes (last column wins).
func extractRecord(keys HeaderMap, row []string) Record {
	rec := Record{Attributes: make(map[string]string)}

	for i, key := range keys {
		if !isCoreKey(key) {
			continue
		}
		v := strings.TrimSpace(cell(row, i))
		if v == "" {
			continue
		}
		switch key {
		case KeyRouteCode:
			setOnce(&rec.RouteCode, v)
		case KeyClientCode:
			setOnce(&rec.ClientCode, v)
		case KeyClientName:
			setOnce(&rec.ClientName, v)
		case KeyVisitDay:
			setOnce(&rec.VisitDay, v)
		}
	}

	for i, key := range keys {
		if key == "" || isCoreKey(key) {
			continue
		}
		v := strings.TrimSpace(cell(row, i))
		if v == "" || isRedundantValue(v) {
			continue
		}
		rec.Attributes[key] = v
	}
	return rec
}

func setOnce(field *string, v string) {
	if *field == "" {
		*field = v
	}
}

func isPlaceholderRoute(route string) bool {
	return route == "0" || route == "0.0"
}

func valid(spec layoutSpec, rec *Record) bool {
	if rec.ClientCode == "" {
		return false
	}
	if isPlaceholderRoute(rec.RouteCode) {
		if spec.requireRoute {
			return false
		}
		rec.RouteCode = ""
	}
	if spec.requireRoute && rec.RouteCode == "" {
		return false
	}
	return true
}
