// Package dispatch is the intermediate-language interpreter: a single
// state machine that reads command lines, maintains cursor/font/page
// state, and drives both the document object graph (package model) and
// the per-page text builder (package content) to realize them.
package dispatch

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/sschober/gropdf/common"
	"github.com/sschober/gropdf/content"
	"github.com/sschober/gropdf/errs"
	"github.com/sschober/gropdf/fixedpoint"
	"github.com/sschober/gropdf/fontfile"
	"github.com/sschober/gropdf/lang"
	"github.com/sschober/gropdf/model"
)

// state names the three observable states of the interpreter.
type state int

const (
	statePreDocument state = iota
	stateInDocumentNoPage
	stateInPage
)

const (
	defaultPageWidth  = 612
	defaultPageHeight = 792
	defaultFontSize   = 11
)

// specialGlyphs maps the two-letter names §4.4 gives a fixed mapping
// for onto their PDF standard-encoding codes.
var specialGlyphs = map[string]byte{
	"hy": 45,
	"lq": 141,
	"rq": 142,
	"fi": 174,
	"fl": 175,
	"cq": 169,
}

// registeredFont bundles a document font's object handle with the
// glyph-width table used to compute advances.
type registeredFont struct {
	objNum int
	widths fontfile.WidthTable
}

// Dispatcher owns all interpreter state for a single run.
type Dispatcher struct {
	doc   *model.Document
	state state
	lineNo int

	resolution int64 // raw "x res" R argument; 0 until set

	// docFonts maps a grout font number (the slot in "x font N SHORT"
	// or "f N") to the document font it currently names. A grout font
	// number is reused by later "x font" calls mounting a different
	// short name at the same N, matching the device's own convention.
	docFonts map[int]*registeredFont
	// loadedByShortName caches width tables across mounts of the same
	// short name at different grout font numbers or on different pages.
	loadedByShortName map[string]*registeredFont

	curPage          int
	curPageHeightInt int
	carryWidth       fixedpoint.Decimal
	carryHeight      fixedpoint.Decimal
	haveCarry        bool

	curFontSizePoints int64
	curGroutFont      int
	curPageFontHandle int
	curFontKnown      bool

	builder *content.Builder
}

// New returns a dispatcher ready to read the pre-document preamble.
func New() *Dispatcher {
	return &Dispatcher{
		docFonts:          map[int]*registeredFont{},
		loadedByShortName: map[string]*registeredFont{},
		curFontSizePoints: defaultFontSize,
	}
}

// Run reads the intermediate-language stream from r, driving doc, until
// end of input (an empty line) or a fatal error. Non-fatal ParseErrors
// are logged via common.Log and the offending line is skipped.
func (d *Dispatcher) Run(r io.Reader, doc *model.Document) error {
	d.doc = doc
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		d.lineNo++
		line := scanner.Text()
		if lang.IsTerminator(line) {
			break
		}
		if lang.IsComment(line) {
			continue
		}
		if err := d.dispatchCommand(line); err != nil {
			e, ok := err.(*errs.Error)
			if ok && !e.Kind.Fatal() {
				common.Log.Warning("%v", e)
				continue
			}
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errs.Wrap(errs.Io, err, "reading input")
	}
	return nil
}

// Finalize must be called once after Run returns a nil error, to flush
// the last page's content stream into the document.
func (d *Dispatcher) Finalize() {
	d.finalizeCurrentPage()
}

func (d *Dispatcher) finalizeCurrentPage() {
	if d.state == stateInPage && d.builder != nil {
		d.doc.SetContent(d.curPage, d.builder.Finish())
	}
}

// toUserSpace converts a raw scaled integer to a user-space decimal:
// n / (resolution/72), computed as from(n*72, resolution) to stay
// within the from(int, int) operation fixedpoint actually provides.
func (d *Dispatcher) toUserSpace(n int64) fixedpoint.Decimal {
	r := d.resolution
	if r <= 0 {
		r = 72
	}
	return fixedpoint.From(n*72, r)
}

// glyphAdvance scales a raw glyph width (thousandths of an em) by the
// current font size and converts the result to user space in one step,
// matching §4.5's from(glyph_width*font_size, unit_scale).
func (d *Dispatcher) glyphAdvance(width int64) fixedpoint.Decimal {
	return d.toUserSpace(width * d.curFontSizePoints)
}

func (d *Dispatcher) dispatchCommand(line string) error {
	if line == "" {
		return nil
	}
	letter := line[0]
	rest := line[1:]

	if letter == lang.InterWordGapPrefix {
		if len(rest) > 0 && (rest[0] == 'h' || rest[0] == 'H') {
			if n, err := lang.ParseScaledInt(rest[1:]); err == nil && d.state == stateInPage {
				d.builder.SetInterWordWidth(d.toUserSpace(n))
			}
		}
		return d.dispatchCommand(rest)
	}

	switch letter {
	case lang.DeviceControl:
		return d.cmdX(rest)
	case lang.BeginPage:
		return d.cmdP()
	case lang.SelectFont:
		return d.cmdF(rest)
	case lang.SetSize:
		return d.cmdS(rest)
	case lang.Typeset:
		return d.cmdT(rest)
	case lang.SpecialGlyph:
		return d.cmdC(rest)
	case lang.Draw:
		return nil
	case lang.RelativeHorizontal:
		return d.cmdH(rest)
	case lang.RelativeVertical:
		common.Log.Warning("line %d: relative vertical move (v) ignored", d.lineNo)
		return nil
	case lang.AbsoluteHorizontal:
		return d.cmdHAbs(rest)
	case lang.AbsoluteVertical:
		return d.cmdVAbs(rest)
	case lang.Newline:
		if d.state == stateInPage {
			d.builder.Newline()
		}
		return nil
	case lang.Color:
		return nil
	default:
		return errs.NewAt(errs.ParseError, d.lineNo, "unknown command letter %q", string(letter))
	}
}

func (d *Dispatcher) cmdX(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return errs.NewAt(errs.ParseError, d.lineNo, "empty x command")
	}
	switch fields[0] {
	case "init":
		if d.state == statePreDocument {
			d.state = stateInDocumentNoPage
		}
		return nil
	case "res":
		if len(fields) < 2 {
			return errs.NewAt(errs.ParseError, d.lineNo, "x res missing resolution argument")
		}
		r, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || r <= 0 {
			return errs.NewAt(errs.ParseError, d.lineNo, "bad x res argument %q", fields[1])
		}
		d.resolution = r
		return nil
	case "T":
		if len(fields) < 2 {
			return errs.NewAt(errs.ParseError, d.lineNo, "x T missing device name")
		}
		if fields[1] != "pdf" {
			return errs.New(errs.WrongDevice, "typesetter %q is not pdf", fields[1])
		}
		return nil
	case "font":
		if len(fields) < 3 {
			return errs.NewAt(errs.ParseError, d.lineNo, "x font requires a slot and a short name")
		}
		slot, err := strconv.Atoi(fields[1])
		if err != nil {
			return errs.NewAt(errs.ParseError, d.lineNo, "bad font slot %q", fields[1])
		}
		return d.mountFont(slot, fields[2])
	case "X":
		return d.cmdXEscape(strings.Join(fields[1:], " "))
	case "trailer", "stop":
		return nil
	default:
		return errs.NewAt(errs.ParseError, d.lineNo, "unknown x sub-command %q", fields[0])
	}
}

func (d *Dispatcher) cmdXEscape(payload string) error {
	const prefix = "papersize="
	if !strings.HasPrefix(payload, prefix) {
		common.Log.Warning("line %d: unrecognized X escape %q", d.lineNo, payload)
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(payload, prefix), ",")
	if len(parts) != 2 {
		return errs.NewAt(errs.ParseError, d.lineNo, "malformed papersize escape %q", payload)
	}
	w, err := lang.ParseScaledInt(parts[0])
	if err != nil {
		return errs.NewAt(errs.ParseError, d.lineNo, "bad papersize width %q: %v", parts[0], err)
	}
	h, err := lang.ParseScaledInt(parts[1])
	if err != nil {
		return errs.NewAt(errs.ParseError, d.lineNo, "bad papersize height %q: %v", parts[1], err)
	}
	d.carryWidth = d.toUserSpace(w)
	d.carryHeight = d.toUserSpace(h)
	d.haveCarry = true
	return nil
}

func (d *Dispatcher) mountFont(slot int, short string) error {
	rf, ok := d.loadedByShortName[short]
	if !ok {
		f, err := fontfile.Load(short)
		if err != nil {
			return err
		}
		objNum := d.doc.RegisterFont(short, f.BaseFont)
		rf = &registeredFont{objNum: objNum, widths: f.Widths}
		d.loadedByShortName[short] = rf
	}
	d.docFonts[slot] = rf
	if d.state == stateInPage {
		d.doc.PageFontSlot(d.curPage, rf.objNum)
	}
	return nil
}

func (d *Dispatcher) cmdP() error {
	if d.state == statePreDocument {
		return errs.NewAt(errs.StateViolation, d.lineNo, "'p' before 'x init'")
	}
	d.finalizeCurrentPage()

	w, h := defaultPageWidth, defaultPageHeight
	if d.haveCarry {
		w, h = int(d.carryWidth.Integer), int(d.carryHeight.Integer)
	}
	d.curPage = d.doc.AddPage(w, h)
	d.curPageHeightInt = h
	d.curFontKnown = false
	d.builder = content.NewBuilder()
	d.state = stateInPage
	return nil
}

func (d *Dispatcher) cmdF(rest string) error {
	if d.state != stateInPage {
		return errs.NewAt(errs.StateViolation, d.lineNo, "'f' before any page")
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return errs.NewAt(errs.ParseError, d.lineNo, "bad font slot %q: %v", rest, err)
	}
	rf, ok := d.docFonts[n]
	if !ok {
		return errs.NewAt(errs.ParseError, d.lineNo, "font slot %d selected before being mounted", n)
	}
	pageSlot := d.doc.PageFontSlot(d.curPage, rf.objNum)
	d.curGroutFont = n
	d.curPageFontHandle = pageSlot
	d.curFontKnown = true
	d.builder.SelectFont(pageSlot, d.curFontSizePoints)
	return nil
}

func (d *Dispatcher) cmdS(rest string) error {
	n, err := lang.ParseScaledInt(rest)
	if err != nil {
		return errs.NewAt(errs.ParseError, d.lineNo, "bad size %q: %v", rest, err)
	}
	d.curFontSizePoints = d.toUserSpace(n).Integer
	if d.state == stateInPage && d.curFontKnown {
		d.builder.SelectFont(d.curPageFontHandle, d.curFontSizePoints)
	}
	return nil
}

func (d *Dispatcher) cmdT(rest string) error {
	if d.state != stateInPage {
		return errs.NewAt(errs.StateViolation, d.lineNo, "'t' before any page")
	}
	if !d.curFontKnown {
		return errs.NewAt(errs.StateViolation, d.lineNo, "'t' before any font selected")
	}
	rf := d.docFonts[d.curGroutFont]
	for i := 0; i < len(rest); i++ {
		b := rest[i]
		d.builder.AppendGlyph(b, d.glyphAdvance(rf.widths[b]))
	}
	return nil
}

func (d *Dispatcher) cmdC(rest string) error {
	if d.state != stateInPage {
		return errs.NewAt(errs.StateViolation, d.lineNo, "'C' before any page")
	}
	name := strings.TrimSpace(rest)
	if code, ok := specialGlyphs[name]; ok {
		// Special glyphs never advance e: the gap surrounding them
		// (typically a following "wh") already accounts for their
		// width, the same as the unknown-name fallback below.
		d.builder.AppendRaw([]byte{code})
		return nil
	}
	common.Log.Warning("line %d: unknown special glyph %q, appending raw bytes without advancing cursor", d.lineNo, name)
	d.builder.AppendRaw([]byte(name))
	return nil
}

func (d *Dispatcher) cmdH(rest string) error {
	if d.state != stateInPage {
		return errs.NewAt(errs.StateViolation, d.lineNo, "'h' before any page")
	}
	n, err := lang.ParseScaledInt(rest)
	if err != nil {
		return errs.NewAt(errs.ParseError, d.lineNo, "bad h argument %q: %v", rest, err)
	}
	e := fixedpoint.Add(d.builder.CurrentE(), d.toUserSpace(n))
	d.builder.SetPosition(e, d.builder.CurrentF())
	return nil
}

func (d *Dispatcher) cmdHAbs(rest string) error {
	if d.state != stateInPage {
		return errs.NewAt(errs.StateViolation, d.lineNo, "'H' before any page")
	}
	n, err := lang.ParseScaledInt(rest)
	if err != nil {
		return errs.NewAt(errs.ParseError, d.lineNo, "bad H argument %q: %v", rest, err)
	}
	d.builder.SetPosition(d.toUserSpace(n), d.builder.CurrentF())
	return nil
}

func (d *Dispatcher) cmdVAbs(rest string) error {
	if d.state != stateInPage {
		return errs.NewAt(errs.StateViolation, d.lineNo, "'V' before any page")
	}
	n, err := lang.ParseScaledInt(rest)
	if err != nil {
		return errs.NewAt(errs.ParseError, d.lineNo, "bad V argument %q: %v", rest, err)
	}
	v := d.toUserSpace(n)
	if v.Integer > int64(d.curPageHeightInt) || (v.Integer == int64(d.curPageHeightInt) && v.Fraction > 0) {
		common.Log.Warning("line %d: V %d exceeds page height, position update dropped", d.lineNo, n)
		return nil
	}
	f := v.SubtractFrom(int64(d.curPageHeightInt))
	d.builder.SetPosition(d.builder.CurrentE(), f)
	return nil
}
