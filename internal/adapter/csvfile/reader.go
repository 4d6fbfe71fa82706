// Package csvfile decodes CSV bytes of unknown text encoding into raw tables.
package csvfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/couchcryptid/mbti-climate-service/internal/domain"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names reported alongside a decoded table.
const (
	EncodingUTF8    = "utf-8"
	EncodingUTF8BOM = "utf-8-sig"
	EncodingCP949   = "cp949"
	EncodingLatin1  = "latin-1"
	EncodingLenient = "utf-8-lenient"
)

var (
	errEmpty      = errors.New("empty input")
	errInvalid    = errors.New("invalid byte sequence")
	errWideRecord = errors.New("record has more fields than header")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type attempt struct {
	name   string
	decode func([]byte) ([]byte, error)
}

// attempts are tried in order; the first that decodes and parses strictly wins.
var attempts = []attempt{
	{EncodingUTF8, decodeUTF8},
	{EncodingCP949, decodeWith(korean.EUCKR)},
	{EncodingLatin1, decodeWith(charmap.ISO8859_1)},
}

func decodeUTF8(data []byte) ([]byte, error) {
	if !utf8.Valid(data) {
		return nil, errInvalid
	}
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), data)
	return out, err
}

// decodeWith rejects output containing replacement characters, which the
// x/text decoders emit for bytes outside the encoding.
func decodeWith(enc encoding.Encoding) func([]byte) ([]byte, error) {
	return func(data []byte) ([]byte, error) {
		out, _, err := transform.Bytes(enc.NewDecoder(), data)
		if err != nil {
			return nil, err
		}
		if bytes.ContainsRune(out, utf8.RuneError) {
			return nil, errInvalid
		}
		return out, nil
	}
}

// Decode reads CSV bytes, trying UTF-8 (with or without BOM), CP949/EUC-KR
// and Latin-1 in that order, then a permissive parse as a last resort. It
// returns the table and the name of the encoding that succeeded.
func Decode(source string, data []byte) (domain.RawTable, string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.RawTable{}, "", &domain.IOError{Source: source, Err: errEmpty}
	}

	var lastErr error
	for _, a := range attempts {
		text, err := a.decode(data)
		if err != nil {
			lastErr = err
			continue
		}
		tbl, err := parse(text, ',', false)
		if err != nil {
			lastErr = err
			continue
		}
		name := a.name
		if name == EncodingUTF8 && bytes.HasPrefix(data, utf8BOM) {
			name = EncodingUTF8BOM
		}
		return tbl, name, nil
	}

	text := []byte(strings.ToValidUTF8(string(bytes.TrimPrefix(data, utf8BOM)), "\uFFFD"))
	tbl, err := parse(text, sniffDelimiter(text), true)
	if err != nil {
		return domain.RawTable{}, "", &domain.IOError{Source: source, Err: fmt.Errorf("%w (after %v)", err, lastErr)}
	}
	return tbl, EncodingLenient, nil
}

// ReadFile reads and decodes a local CSV file.
func ReadFile(path string) (domain.RawTable, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RawTable{}, "", &domain.IOError{Source: filepath.Base(path), Err: err}
	}
	return Decode(filepath.Base(path), data)
}

// parse splits text into a header and rows. Strict mode rejects records
// wider than the header; lenient mode accepts stray quotes and ragged rows.
func parse(text []byte, comma rune, lenient bool) (domain.RawTable, error) {
	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = lenient

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.RawTable{}, errEmpty
		}
		return domain.RawTable{}, fmt.Errorf("read header: %w", err)
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.RawTable{}, fmt.Errorf("read record: %w", err)
		}
		if !lenient && len(rec) > len(header) {
			line, _ := r.FieldPos(0)
			return domain.RawTable{}, fmt.Errorf("line %d: %w", line, errWideRecord)
		}
		rows = append(rows, rec)
	}
	return domain.NewRawTable(header, rows), nil
}

// sniffDelimiter picks the most frequent of comma, semicolon and tab on the
// first line.
func sniffDelimiter(text []byte) rune {
	first, _, _ := bytes.Cut(text, []byte("\n"))
	best, bestN := ',', bytes.Count(first, []byte(","))
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(first, []byte(string(d))); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}
