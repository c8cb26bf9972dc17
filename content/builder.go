// Package content builds the PDF text-object operator stream for a
// single page's content stream: the Tm/Tf/Tw/Tj operators a BT...ET
// block needs, in the order the intermediate language's commands
// produce them. It tracks the cursor and buffers glyph bytes the way
// the dispatcher expects (see package dispatch), but knows nothing
// about fonts, pages, or the intermediate language itself.
package content

import (
	"bytes"
	"fmt"

	"github.com/sschober/gropdf/core"
	"github.com/sschober/gropdf/fixedpoint"
)

// Builder accumulates one page's text-showing operators.
type Builder struct {
	ops []string

	e, f fixedpoint.Decimal
	w    fixedpoint.Decimal
	haveW bool

	haveTm          bool
	lastTmE, lastTmF fixedpoint.Decimal

	wordBuf []byte
}

// NewBuilder returns an empty builder with the cursor at the origin.
func NewBuilder() *Builder {
	return &Builder{}
}

// CurrentE returns the builder's current horizontal position.
func (b *Builder) CurrentE() fixedpoint.Decimal { return b.e }

// CurrentF returns the builder's current vertical position.
func (b *Builder) CurrentF() fixedpoint.Decimal { return b.f }

// SelectFont emits "/F<slot> <size>. Tf". Unlike the text matrix,
// successive identical selections are never suppressed: a redundant
// Tf is how a pure size change without a font change is represented.
func (b *Builder) SelectFont(slot int, sizePoints int64) {
	b.flushWord()
	b.emit(fmt.Sprintf("/F%d %d. Tf", slot, sizePoints))
}

// SetInterWordWidth emits "<w> Tw" only when w differs from the value
// last set.
func (b *Builder) SetInterWordWidth(w fixedpoint.Decimal) {
	if b.haveW && b.w == w {
		return
	}
	b.w, b.haveW = w, true
	b.emit(w.String() + " Tw")
}

// SetPosition flushes the buffered word, then emits a new text matrix
// "1 0 0 1 e f Tm" — unless it is identical to the last one emitted, in
// which case the repeat is suppressed.
func (b *Builder) SetPosition(e, f fixedpoint.Decimal) {
	b.flushWord()
	b.e, b.f = e, f
	if b.haveTm && b.lastTmE == e && b.lastTmF == f {
		return
	}
	b.haveTm, b.lastTmE, b.lastTmF = true, e, f
	b.emit(fmt.Sprintf("1 0 0 1 %s %s Tm", e.String(), f.String()))
}

// AppendGlyph appends one glyph byte to the current word and advances
// the cursor by advance, already scaled to user space.
func (b *Builder) AppendGlyph(c byte, advance fixedpoint.Decimal) {
	b.wordBuf = append(b.wordBuf, c)
	b.e = fixedpoint.Add(b.e, advance)
}

// AppendRaw appends bytes to the current word without moving the
// cursor — the path for special glyphs, both mapped codes and the raw
// fallback for an unrecognized name.
func (b *Builder) AppendRaw(raw []byte) {
	b.wordBuf = append(b.wordBuf, raw...)
}

// Newline is a flush point with no other effect.
func (b *Builder) Newline() {
	b.flushWord()
}

// flushWord emits "(bytes) Tj" for any buffered word and clears the
// buffer. A no-op when nothing is buffered.
func (b *Builder) flushWord() {
	if len(b.wordBuf) == 0 {
		return
	}
	b.emit(core.String(b.wordBuf).WriteString() + " Tj")
	b.wordBuf = b.wordBuf[:0]
}

func (b *Builder) emit(op string) {
	b.ops = append(b.ops, op)
}

// Finish flushes any pending word and returns the complete content
// stream payload, wrapped in BT...ET.
func (b *Builder) Finish() []byte {
	b.flushWord()
	var buf bytes.Buffer
	buf.WriteString("BT\n")
	for _, op := range b.ops {
		buf.WriteString(op)
		buf.WriteByte('\n')
	}
	buf.WriteString("ET\n")
	return buf.Bytes()
}
