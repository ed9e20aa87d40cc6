// Package vocabulary lists the dynamic attribute keys the classifier knows how
// to read. Keys are canonical (normalize.Key form) and appear in the attribute
// bag exactly as the reconciler resolves them.
//
// Version v1 covers the three upload layouts:
//
//   - single header row: flat keys such as EXHIBIDOR, UNIDADES, STOCK_KIWI.
//   - category + header: columns from index 10 carry the running category as
//     prefix, so the family blocks resolve to KIWI_UNIDADES, LEGO_STOCK, ...
//   - category + header + fallback header: same keys as category + header.
package vocabulary

const Version = "v1"

// Family identifies a product-display family.
type Family string

const (
	FamilyKiwi Family = "KIWI"
	FamilyLego Family = "LEGO"
)

// Families in the order the classifier evaluates them.
var Families = []Family{FamilyKiwi, FamilyLego}

// DescriptorKeys hold the display/exhibitor description, tried in order.
var DescriptorKeys = []string{
	"EXHIBIDOR",
	"TIPO_EXHIBIDOR",
	"EQUIPO",
	"DISPLAY",
}

// FamilyDescriptorKeys are descriptor columns found inside a family block.
var FamilyDescriptorKeys = map[Family][]string{
	FamilyKiwi: {"KIWI_EXHIBIDOR", "KIWI_TIPO", "EXHIBIDOR_KIWI"},
	FamilyLego: {"LEGO_EXHIBIDOR", "LEGO_TIPO", "EXHIBIDOR_LEGO"},
}

// FamilyCountKeys hold the current unit count per family, tried in order.
var FamilyCountKeys = map[Family][]string{
	FamilyKiwi: {"KIWI_UNIDADES", "KIWI_STOCK", "UNIDADES_KIWI", "STOCK_KIWI", "INVENTARIO_KIWI"},
	FamilyLego: {"LEGO_UNIDADES", "LEGO_STOCK", "UNIDADES_LEGO", "STOCK_LEGO", "INVENTARIO_LEGO"},
}

// GenericCountKeys are used when the family keys are absent.
var GenericCountKeys = []string{"UNIDADES", "STOCK", "INVENTARIO", "CANTIDAD"}

// Threshold override columns (per-tier minimums).
const (
	KeyRedMin   = "UMBRAL_ROJO"
	KeyAmberMin = "UMBRAL_AMARILLO"
	KeyGreenMin = "UMBRAL_VERDE"
)
