package files

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-faster/errors"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var ErrMissingColumn = errors.New("missing required column")

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

// readCSV accepts "," or ";" as delimiter, picking whichever occurs first in the header line.
func readCSV(r io.Reader) ([][]string, error) {
	br := stripUTF8BOM(bufio.NewReader(r))
	first, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, errors.Wrap(err, "peek csv")
	}
	header := string(first)
	if i := strings.IndexByte(header, '\n'); i >= 0 {
		header = header[:i]
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	if strings.Count(header, ";") > strings.Count(header, ",") {
		cr.Comma = ';'
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	return rows, nil
}

// table indexes a header row. Lookup is by canonical column name.
type table struct {
	index map[string]int
	rows  [][]string
}

func newTable(rows [][]string, aliases map[string]string, required []string) (*table, error) {
	if len(rows) == 0 {
		return nil, errors.New("missing header")
	}
	t := &table{index: map[string]int{}, rows: rows[1:]}
	for i, h := range rows[0] {
		h = normalizeHeader(h)
		if !utf8.ValidString(h) {
			return nil, errors.New("invalid header encoding")
		}
		if canonical, ok := aliases[h]; ok {
			if _, dup := t.index[canonical]; !dup {
				t.index[canonical] = i
			}
		}
	}
	for _, req := range required {
		if _, ok := t.index[req]; !ok {
			return nil, errors.Wrapf(ErrMissingColumn, "%s", req)
		}
	}
	return t, nil
}

// normalizeHeader lowercases h, drops diacritics and joins words with "_": "Denominação do Cargo"
// becomes "denominacao_do_cargo".
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, h); err == nil {
		h = folded
	}
	return strings.Join(strings.Fields(h), "_")
}

func (t *table) get(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
