package reconciler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)

func newTestReconciler() *Reconciler {
	return NewReconciler().WithClock(func() time.Time { return fixedNow })
}

func reconcileText(t *testing.T, text string, layout Layout) *Result {
	t.Helper()
	table, err := Decode([]byte(text), FormatDelimited)
	require.NoError(t, err)
	res, err := newTestReconciler().Reconcile(table, layout)
	require.NoError(t, err)
	return res
}

// sparseRow builds a row of the given width from index -> value pairs.
func sparseRow(width int, cells map[int]string) []string {
	row := make([]string, width)
	for i, v := range cells {
		row[i] = v
	}
	return row
}

func TestReconcileSingleHeader(t *testing.T) {
	res := reconcileText(t, "RUTA,COD_CLIENTE,NOMBRE_CLIENTE,DIA_VISITA\nR1,C1,Juan,Lunes\n", LayoutSingle)

	require.Len(t, res.Records, 1)
	rec := res.Records[0]
	assert.Equal(t, "R1", rec.RouteCode)
	assert.Equal(t, "C1", rec.ClientCode)
	assert.Equal(t, "Juan", rec.ClientName)
	assert.Equal(t, "Lunes", rec.VisitDay)
	assert.Empty(t, rec.Attributes)
	assert.Equal(t, "20260302T143000.000000Z", res.BatchId)
	assert.Equal(t, res.BatchId, rec.BatchId)
	assert.True(t, rec.UploadedAt.Equal(fixedNow))
}

func TestReconcileSemicolonDelimiter(t *testing.T) {
	res := reconcileText(t, "Ruta;Cod Cliente;Nombre;Día;Exhibidor\nR2;C9;Ana;Martes;KIWI 2 PUERTAS\n", LayoutSingle)

	require.Len(t, res.Records, 1)
	assert.Equal(t, "R2", res.Records[0].RouteCode)
	assert.Equal(t, "C9", res.Records[0].ClientCode)
	assert.Equal(t, "Martes", res.Records[0].VisitDay)
	assert.Equal(t, "KIWI 2 PUERTAS", res.Records[0].Attributes["EXHIBIDOR"])
}

func TestReconcileDropsRowsWithoutClientCode(t *testing.T) {
	res := reconcileText(t, "RUTA,COD_CLIENTE,NOMBRE_CLIENTE,DIA_VISITA\nR1,C1,Juan,Lunes\nR1,,Pedro,Martes\n", LayoutSingle)

	require.Len(t, res.Records, 1)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "C1", res.Records[0].ClientCode)
}

func TestReconcileRouteValidationDiffersPerLayout(t *testing.T) {
	// Single header: placeholder and empty routes are dropped.
	single := reconcileText(t, "RUTA,COD_CLIENTE\n0,C1\n0.0,C2\n,C3\nR9,C4\n", LayoutSingle)
	require.Len(t, single.Records, 1)
	assert.Equal(t, "C4", single.Records[0].ClientCode)
	assert.Equal(t, 3, single.Skipped)

	// Category + header: only the client code is required, and a placeholder
	// route is never stored.
	category := reconcileText(t, "INFO,\nRUTA,CODIGO\n0,C1\n,C2\nR9,C3\n", LayoutCategory)
	require.Len(t, category.Records, 3)
	assert.Equal(t, "", category.Records[0].RouteCode)
	assert.Equal(t, "", category.Records[1].RouteCode)
	assert.Equal(t, "R9", category.Records[2].RouteCode)

	// Category + header + fallback: both are required again.
	fallback := reconcileText(t, "INFO,\nRUTA,\n,COD_CLIENTE\n0,C1\nR1,C2\n", LayoutFallback)
	require.Len(t, fallback.Records, 1)
	assert.Equal(t, "C2", fallback.Records[0].ClientCode)
}

func TestReconcileMalformedUpload(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		layout Layout
		rows   int
		need   int
	}{
		{"single with header only", "RUTA,COD_CLIENTE\n", LayoutSingle, 1, 2},
		{"category with two rows", "A,B\nRUTA,COD_CLIENTE\n", LayoutCategory, 2, 3},
		{"fallback with two rows", "A,B\nRUTA,COD_CLIENTE\n", LayoutFallback, 2, 3},
		{"empty", "", LayoutSingle, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Decode([]byte(tt.text), FormatDelimited)
			require.NoError(t, err)

			_, err = newTestReconciler().Reconcile(table, tt.layout)
			var malformed *MalformedUploadError
			require.True(t, errors.As(err, &malformed), "want MalformedUploadError, got %v", err)
			assert.Equal(t, tt.rows, malformed.Rows)
			assert.Equal(t, tt.need, malformed.Required)
		})
	}
}

func TestBuildHeaderMapCategoryPersistsAcrossMarkers(t *testing.T) {
	const width = 15
	categories := sparseRow(width, map[int]string{
		0:  "DATOS",
		10: "Kiwi",
		12: "ACTUAL",
		13: "LEGO",
		14: "necesidad",
	})
	headers := sparseRow(width, map[int]string{
		0: "RUTA", 1: "COD_CLIENTE", 2: "NOMBRE_CLIENTE", 3: "DIA_VISITA",
		4: "ZONA", 5: "CANAL",
		10: "EXHIBIDOR",
		12: "UNIDADES",
		13: "UNIDADES",
		14: "UNIDADES",
	})
	fallback := sparseRow(width, map[int]string{
		6:  "VENDEDOR",
		11: "STOCK",
		12: "IGNORED",
	})

	keys := BuildHeaderMap(LayoutFallback, RawTable{categories, headers, fallback})

	require.Len(t, keys, width)
	assert.Equal(t, KeyRouteCode, keys[0])
	assert.Equal(t, KeyClientCode, keys[1])
	assert.Equal(t, KeyClientName, keys[2])
	assert.Equal(t, KeyVisitDay, keys[3])
	// Below index 10 the running category is tracked but never prefixed.
	assert.Equal(t, "ZONA", keys[4])
	assert.Equal(t, "VENDEDOR", keys[6])
	assert.Equal(t, "", keys[7])
	assert.Equal(t, "KIWI_EXHIBIDOR", keys[10])
	assert.Equal(t, "KIWI_STOCK", keys[11])
	// The ACTUAL marker does not replace the KIWI category.
	assert.Equal(t, "KIWI_UNIDADES", keys[12])
	assert.Equal(t, "LEGO_UNIDADES", keys[13])
	assert.Equal(t, "LEGO_UNIDADES", keys[14])
}

func TestBuildHeaderMapOverrides(t *testing.T) {
	keys := BuildHeaderMap(LayoutSingle, RawTable{{"Código Cliente", "Ruta", "Item", "Tipo de exhibidor", "Total"}})
	assert.Equal(t, HeaderMap{KeyClientCode, KeyRouteCode, "", "TIPO_EXHIBIDOR", ""}, keys)
}

func TestReconcileAttributeRules(t *testing.T) {
	const width = 14
	categories := sparseRow(width, map[int]string{10: "KIWI", 12: "ACTUAL"})
	headers := sparseRow(width, map[int]string{
		0: "RUTA", 1: "CODIGO", 2: "CLIENTE", 3: "DIA",
		4: "EXHIBIDOR", 5: "ITEM", 6: "OBS",
		10: "UNIDADES", 11: "STOCK", 12: "UNIDADES", 13: "RUTA",
	})
	data := sparseRow(width, map[int]string{
		0: "R1", 1: "C1", 2: "Bodega Sol", 3: "Lunes",
		4: "KIWI 2", 5: "7", 6: "N/A",
		10: "3", 11: "9", 12: "5", 13: "R-other",
	})
	short := []string{"R1", "C2", "Tienda Luna"}

	res, err := newTestReconciler().Reconcile(RawTable{categories, headers, data, short}, LayoutCategory)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	first := res.Records[0]
	assert.Equal(t, "R1", first.RouteCode)
	assert.Equal(t, "Bodega Sol", first.ClientName)
	assert.Equal(t, "KIWI 2", first.Attributes["EXHIBIDOR"])
	// Redundant column and redundant value are both dropped.
	assert.NotContains(t, first.Attributes, "ITEM")
	assert.NotContains(t, first.Attributes, "OBS")
	// Duplicate dynamic keys: the last column wins.
	assert.Equal(t, "5", first.Attributes["KIWI_UNIDADES"])
	assert.Equal(t, "9", first.Attributes["KIWI_STOCK"])
	assert.Equal(t, "R-other", first.Attributes["KIWI_RUTA"])

	second := res.Records[1]
	assert.Equal(t, "C2", second.ClientCode)
	assert.Equal(t, "", second.VisitDay)
	assert.Empty(t, second.Attributes)
}

func TestReconcileFirstCoreColumnWins(t *testing.T) {
	res := reconcileText(t, "RUTA,COD_RUTA,COD_CLIENTE\n,R2,C1\nR1,R2,C2\n", LayoutSingle)

	require.Len(t, res.Records, 2)
	assert.Equal(t, "R2", res.Records[0].RouteCode)
	assert.Equal(t, "R1", res.Records[1].RouteCode)
}

func TestDecodeWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"RUTA", "COD_CLIENTE", "NOMBRE_CLIENTE", "DIA_VISITA"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"R1", "C1", "Juan", "Lunes"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := Decode(buf.Bytes(), DetectFormat("ruta.XLSX"))
	require.NoError(t, err)

	res, err := newTestReconciler().Reconcile(table, LayoutSingle)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "C1", res.Records[0].ClientCode)
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ';', SniffDelimiter([]byte("a;b\nc,d")))
	assert.Equal(t, ',', SniffDelimiter([]byte("a,b\nc;d")))
	assert.Equal(t, ',', SniffDelimiter([]byte("")))
}

func TestParseLayout(t *testing.T) {
	for in, want := range map[string]Layout{"": LayoutSingle, "Category": LayoutCategory, " fallback ": LayoutFallback} {
		got, err := ParseLayout(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLayout("wide")
	assert.Error(t, err)
}
