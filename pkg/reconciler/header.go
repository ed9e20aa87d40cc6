package reconciler

import (
	"strings"

	"mondichat-be/pkg/normalize"
)

// categoryPrefixMinIndex is the first column whose key carries the running
// category. Earlier columns are always identity fields.
const categoryPrefixMinIndex = 10

// markerCategories sit above sub-columns of a block ("actual" vs "necesidad")
// and never replace the running category.
var markerCategories = map[string]bool{
	"ACTUAL":    true,
	"NECESIDAD": true,
}

type overrideKind int

const (
	overrideRename overrideKind = iota
	overrideRedundant
)

type override struct {
	kind overrideKind
	key  string
}

// overrides are applied to the normalized sub-header before any category
// prefixing. Redundant entries drop the column, and a dynamic value equal to
// a redundant key is dropped too.
var overrides = map[string]override{
	"CODIGO_CLIENTE":     {kind: overrideRename, key: "COD_CLIENTE"},
	"COD_CLI":            {kind: overrideRename, key: "COD_CLIENTE"},
	"CLIENTE_ID":         {kind: overrideRename, key: "COD_CLIENTE"},
	"NOMBRE_DEL_CLIENTE": {kind: overrideRename, key: "NOMBRE_CLIENTE"},
	"DIA_DE_VISITA":      {kind: overrideRename, key: "DIA_VISITA"},
	"TIPO_DE_EXHIBIDOR":  {kind: overrideRename, key: "TIPO_EXHIBIDOR"},
	"CODIGO_RUTA":        {kind: overrideRename, key: "COD_RUTA"},

	"ITEM":     {kind: overrideRedundant},
	"NRO":      {kind: overrideRedundant},
	"TOTAL":    {kind: overrideRedundant},
	"SUBTOTAL": {kind: overrideRedundant},
	"N_A":      {kind: overrideRedundant},
	"-":        {kind: overrideRedundant},
}

// layoutSpec captures what differs between the three upload layouts. The
// synonym sets and the validation rule intentionally differ per layout: each
// one mirrors the spreadsheet family it was built for.
type layoutSpec struct {
	headerRows   int
	minRows      int
	hasCategory  bool
	hasFallback  bool
	requireRoute bool
	synonyms     map[string]string
}

var layouts = map[Layout]layoutSpec{
	LayoutSingle: {
		headerRows:   1,
		minRows:      2,
		requireRoute: true,
		synonyms: map[string]string{
			"RUTA":           KeyRouteCode,
			"COD_RUTA":       KeyRouteCode,
			"COD_CLIENTE":    KeyClientCode,
			"NOMBRE_CLIENTE": KeyClientName,
			"NOMBRE":         KeyClientName,
			"RAZON_SOCIAL":   KeyClientName,
			"DIA_VISITA":     KeyVisitDay,
			"DIA":            KeyVisitDay,
		},
	},
	LayoutCategory: {
		headerRows:   2,
		minRows:      3,
		hasCategory:  true,
		requireRoute: false,
		synonyms: map[string]string{
			"RUTA":           KeyRouteCode,
			"ZONA_RUTA":      KeyRouteCode,
			"CODIGO":         KeyClientCode,
			"COD_CLIENTE":    KeyClientCode,
			"CLIENTE":        KeyClientName,
			"NOMBRE_CLIENTE": KeyClientName,
			"DIA":            KeyVisitDay,
			"DIA_VISITA":     KeyVisitDay,
		},
	},
	LayoutFallback: {
		headerRows:   3,
		minRows:      3,
		hasCategory:  true,
		hasFallback:  true,
		requireRoute: true,
		synonyms: map[string]string{
			"RUTA":           KeyRouteCode,
			"COD_RUTA":       KeyRouteCode,
			"COD_CLIENTE":    KeyClientCode,
			"NOMBRE_CLIENTE": KeyClientName,
			"NOMBRE":         KeyClientName,
			"DIA_VISITA":     KeyVisitDay,
			"DIA":            KeyVisitDay,
			"FRECUENCIA":     KeyVisitDay,
		},
	},
}

// BuildHeaderMap resolves one key per column of the header rows of table.
// The table must already hold at least the layout's header rows.
func BuildHeaderMap(layout Layout, table RawTable) HeaderMap {
	spec := layouts[layout]

	var categories, headers, fallback []string
	switch layout {
	case LayoutCategory:
		categories, headers = table[0], table[1]
	case LayoutFallback:
		categories, headers, fallback = table[0], table[1], table[2]
	default:
		headers = table[0]
	}

	width := max(len(categories), len(headers), len(fallback))
	keys := make(HeaderMap, width)
	running := ""

	for i := 0; i < width; i++ {
		sub := cell(headers, i)
		if spec.hasFallback && strings.TrimSpace(sub) == "" {
			sub = cell(fallback, i)
		}

		if spec.hasCategory {
			if cat := normalize.Key(cell(categories, i)); cat != "" && !markerCategories[cat] {
				running = cat
			}
		}

		key := resolveKey(normalize.Key(sub), running, i, spec.hasCategory)
		if core, ok := spec.synonyms[key]; ok {
			key = core
		}
		keys[i] = key
	}
	return keys
}

func resolveKey(sub, running string, idx int, hasCategory bool) string {
	if sub == "" {
		return ""
	}
	if o, ok := overrides[sub]; ok {
		if o.kind == overrideRedundant {
			return ""
		}
		return o.key
	}
	if hasCategory && idx >= categoryPrefixMinIndex && running != "" {
		return running + "_" + sub
	}
	return sub
}

// isRedundantValue reports whether a cell value is a structural marker
// rather than data.
func isRedundantValue(v string) bool {
	o, ok := overrides[normalize.Key(v)]
	return ok && o.kind == overrideRedundant
}
