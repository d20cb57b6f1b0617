package locations

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrOpen is returned (wrapped) when the input file cannot be opened.
	ErrOpen = errors.New("locations: cannot open file")

	// ErrMalformedRow is returned in strict mode for non-numeric tokens.
	ErrMalformedRow = errors.New("locations: malformed numeric row")
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// ReadFile reads the table stored at path.
//
// If the file cannot be opened the returned Table is empty and the error
// wraps ErrOpen; this is a recoverable condition, not a fatal one.
func ReadFile(path string, opts ...Option) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrOpen, "%s: %v", path, err)
	}
	defer f.Close()

	t, err := Parse(f, opts...)
	if err != nil {
		return t, errors.Wrapf(err, "read %s", path)
	}

	return t, nil
}

// Parse reads whitespace-delimited numeric rows from r, one per non-blank
// line. In lenient mode (the default) it only fails on I/O errors.
func Parse(r io.Reader, opts ...Option) (Table, error) {
	var (
		o       = buildOptions(opts)
		sc      = bufio.NewScanner(r)
		out     Table
		lineNo  int
		line    string
		fields  []string
		row     []float64
		v       float64
		ok      bool
		k       int
		perLine int
	)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for sc.Scan() {
		lineNo++
		line = sc.Text()
		if o.Echo != nil {
			o.Echo(line)
		}
		fields = strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		perLine = len(fields)
		row = make([]float64, 0, perLine)
		for k = 0; k < perLine; k++ {
			v, ok = parseToken(fields[k])
			if !ok && o.Strict {
				return out, errors.Wrapf(ErrMalformedRow, "line %d, token %q", lineNo, fields[k])
			}
			row = append(row, v)
		}
		out = append(out, row)
	}
	if err := sc.Err(); err != nil {
		return out, errors.Wrap(err, "locations: scan")
	}

	return out, nil
}

// parseToken converts tok the way C's atof does: the longest numeric prefix
// wins and no prefix at all yields 0. ok reports whether tok was a complete
// number.
func parseToken(tok string) (float64, bool) {
	v, err := strconv.ParseFloat(tok, 64)
	if err == nil {
		return v, true
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
		// Overflow still carries ±Inf or a denormal, as atof would.
		return v, true
	}
	prefix := numericPrefix(tok)
	if prefix == "" {
		return 0, false
	}
	v, err = strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false
	}

	return v, false
}

// numericPrefix returns the longest leading substring of s that forms a
// decimal floating-point literal: [sign] digits [. digits] [e [sign] digits].
func numericPrefix(s string) string {
	var (
		i      int
		n      = len(s)
		digits int
	)
	if i < n && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for i < n && isDigit(s[i]) {
		i++
		digits++
	}
	if i < n && s[i] == '.' {
		i++
		for i < n && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return ""
	}
	end := i
	// Exponent only counts when at least one digit follows it.
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < n && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < n && isDigit(s[j]) {
			for j < n && isDigit(s[j]) {
				j++
			}
			end = j
		}
	}

	return s[:end]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
