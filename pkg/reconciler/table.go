package reconciler

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format is the container format of an upload.
type Format string

const (
	FormatDelimited Format = "delimited"
	FormatWorkbook  Format = "workbook"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat picks the decoder from the uploaded file name.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatWorkbook
	}
	return FormatDelimited
}

// Decode turns upload bytes into a RawTable.
func Decode(data []byte, format Format) (RawTable, error) {
	if format == FormatWorkbook {
		return decodeWorkbook(data)
	}
	return decodeDelimited(data)
}

// SniffDelimiter returns ';' when the first line contains one, ',' otherwise.
func SniffDelimiter(data []byte) rune {
	first := data
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		first = data[:i]
	}
	if bytes.ContainsRune(first, ';') {
		return ';'
	}
	return ','
}

func decodeDelimited(data []byte) (RawTable, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = SniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var table RawTable
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &MalformedUploadError{Reason: err.Error()}
		}
		table = append(table, row)
	}
	return table, nil
}

func decodeWorkbook(data []byte) (RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &MalformedUploadError{Reason: "unreadable workbook: " + err.Error()}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &MalformedUploadError{Reason: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &MalformedUploadError{Reason: "unreadable sheet: " + err.Error()}
	}
	return RawTable(rows), nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
