// Package fontfile reads groff-style font-description files and builds
// the dense glyph-width tables the text-content builder consults to
// advance the cursor. It knows the on-disk search path and the file's
// line grammar; it knows nothing about PDF or about the intermediate
// language that names fonts.
package fontfile

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sschober/gropdf/errs"
)

// roots lists the candidate installation prefixes, searched in order.
// A reader may also honor GROPDF_FONT_PATH (colon-separated), searched
// before these defaults; no such override is required by callers.
var roots = []string{
	"/usr/share/groff/current",
	"/usr/local/share/groff/current",
	"/opt/homebrew/share/groff/current",
}

// WidthTable is a dense character-code-to-advance-width mapping,
// indexed 0..256 inclusive (257 slots), zero where undefined.
type WidthTable [257]int64

// Font is the parsed result for one short font name: its PostScript
// base-font name (taken from the description file's "name" header
// field when present, else derived from SHORT — see resolveBaseFont)
// and its glyph width table.
type Font struct {
	ShortName string
	BaseFont  string
	Widths    WidthTable
}

// candidatePaths returns, in search order, every file path that might
// hold SHORT's description file.
func candidatePaths(short string) []string {
	var paths []string
	if override := os.Getenv("GROPDF_FONT_PATH"); override != "" {
		for _, root := range strings.Split(override, ":") {
			if root == "" {
				continue
			}
			paths = append(paths, filepath.Join(root, "font", "devpdf", short))
		}
	}
	for _, root := range roots {
		paths = append(paths, filepath.Join(root, "font", "devpdf", short))
	}
	return paths
}

// Load locates and parses the description file for short (e.g. "TR"),
// returning errs.FontNotFound if no candidate path exists and
// errs.ParseError (citing the offending line) for a malformed charset
// line.
func Load(short string) (*Font, error) {
	var lastPath string
	for _, path := range candidatePaths(short) {
		lastPath = path
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		defer f.Close()
		return parse(short, f)
	}
	return nil, errs.New(errs.FontNotFound, "no description file for font %q (last tried %s)", short, lastPath)
}

// parse reads a description file already opened by the caller.
func parse(short string, r *os.File) (*Font, error) {
	font := &Font{ShortName: short, BaseFont: resolveBaseFont(short)}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	inCharset := false
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if !inCharset {
			if strings.TrimSpace(line) == "charset" {
				inCharset = true
			} else if name, ok := parseSpecialHeader(line); ok {
				font.BaseFont = name
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			return nil, errs.NewAt(errs.ParseError, lineNo, "charset line has %d fields, want at least 4: %q", len(fields), line)
		}
		metrics := fields[1]
		if metrics == `"` {
			// Continuation line: repeats the previous glyph's entry
			// under an alternate name. Not needed for width lookup.
			continue
		}
		width, err := firstCommaToken(metrics)
		if err != nil {
			return nil, errs.NewAt(errs.ParseError, lineNo, "bad metrics field %q: %v", metrics, err)
		}
		code, err := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err != nil {
			return nil, errs.NewAt(errs.ParseError, lineNo, "bad code field %q: %v", fields[3], err)
		}
		if code < 0 || code > 256 {
			continue
		}
		font.Widths[code] = width
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(errs.Io, err, "reading font description for %q", short)
	}
	return font, nil
}

// firstCommaToken parses the leading comma-separated integer out of a
// metrics field like "600,0".
func firstCommaToken(metrics string) (int64, error) {
	tok := metrics
	if i := strings.IndexByte(metrics, ','); i >= 0 {
		tok = metrics[:i]
	}
	return strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
}

// parseSpecialHeader recognizes the header line "name <base-font>",
// which some description files carry before the charset section.
func parseSpecialHeader(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 2 && fields[0] == "name" {
		return fields[1], true
	}
	return "", false
}

// standardBaseNames maps the conventional two-letter short names to
// their PostScript base-font names, used when a description file's
// header carries no explicit "name" line.
var standardBaseNames = map[string]string{
	"TR": "Times-Roman",
	"TB": "Times-Bold",
	"TI": "Times-Italic",
	"TBI": "Times-BoldItalic",
	"CR": "Courier",
	"CB": "Courier-Bold",
	"CI": "Courier-Oblique",
	"CBI": "Courier-BoldOblique",
	"HR": "Helvetica",
	"HB": "Helvetica-Bold",
	"HI": "Helvetica-Oblique",
	"HBI": "Helvetica-BoldOblique",
	"S":  "Symbol",
	"ZD": "ZapfDingbats",
}

// resolveBaseFont returns the best guess at a PostScript base-font name
// before the description file header has been read.
func resolveBaseFont(short string) string {
	if name, ok := standardBaseNames[short]; ok {
		return name
	}
	return short
}
