package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/alnah/go-cardgen/internal/fileutil"
)

// ErrMalformed is returned when the input cannot be read as a sheet.
var ErrMalformed = errors.New("malformed sheet")

// binarySignatures open common uploads that are not sheets but would
// otherwise pass as text.
var binarySignatures = []struct {
	kind  string
	magic []byte
}{
	{"PDF", []byte("%PDF-")},
	{"PNG", []byte("\x89PNG")},
	{"JPEG", []byte("\xff\xd8\xff")},
	{"GIF", []byte("GIF8")},
}

// record is one sheet line with the 1-based line it starts on.
type record struct {
	line  int
	cells []string
}

// Decode reads the first sheet of data and returns its data rows in order.
// Workbooks (zip or OLE2 signature) go through excelize; any other content
// must be UTF-8 text and is read as CSV with a ';' or ',' delimiter guessed
// from the header line.
func Decode(data []byte) ([]Row, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformed)
	}

	var records []record
	var err error
	if fileutil.HasZipSignature(data) || fileutil.HasOLE2Signature(data) {
		records, err = readWorkbook(data)
	} else {
		records, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}
	return toRows(records), nil
}

// readWorkbook reads the first worksheet. Legacy .xls files share the
// OLE2 container with encrypted workbooks; excelize rejects them.
func readWorkbook(data []byte) ([]record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformed)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrMalformed, sheets[0], err)
	}
	records := make([]record, len(rows))
	for i, cells := range rows {
		records[i] = record{line: i + 1, cells: cells}
	}
	return records, nil
}

func readCSV(data []byte) ([]record, error) {
	if err := checkText(data); err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = detectDelimiter(data)
	r.FieldsPerRecord = -1

	var records []record
	for {
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		line, _ := r.FieldPos(0)
		records = append(records, record{line: line, cells: cells})
	}
	return records, nil
}

// checkText rejects content that cannot be a delimited text export.
func checkText(data []byte) error {
	for _, sig := range binarySignatures {
		if bytes.HasPrefix(data, sig.magic) {
			return fmt.Errorf("%w: %s file is not a sheet", ErrMalformed, sig.kind)
		}
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return fmt.Errorf("%w: binary content (NUL byte)", ErrMalformed)
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("%w: text is not valid UTF-8", ErrMalformed)
	}
	return nil
}

// detectDelimiter picks ';' when the header line has more semicolons than
// commas. Spreadsheet exports in pt-BR locales use ';'.
func detectDelimiter(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		return ';'
	}
	return ','
}

// toRows numbers each data row by its line offset from the header, so
// blank lines in between keep later numbers aligned with the sheet.
func toRows(records []record) []Row {
	if len(records) < 2 {
		return nil
	}

	header := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if blank(rec.cells) {
			continue
		}
		rows = append(rows, newRowFromCells(rec.line-header.line, header.cells, rec.cells))
	}
	return rows
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
