package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sschober/gropdf/fixedpoint"
)

func TestFinishWrapsInBTET(t *testing.T) {
	b := NewBuilder()
	out := string(b.Finish())
	assert.Equal(t, "BT\nET\n", out)
}

func TestSelectFontNeverSuppressed(t *testing.T) {
	b := NewBuilder()
	b.SelectFont(0, 11)
	b.SelectFont(0, 11)
	out := string(b.Finish())
	assert.Equal(t, 2, strings.Count(out, "/F0 11. Tf"))
}

func TestSetPositionSuppressesDuplicateTm(t *testing.T) {
	b := NewBuilder()
	e := fixedpoint.From(72000, 1000)
	f := fixedpoint.From(720000, 1000)
	b.SetPosition(e, f)
	b.SetPosition(e, f)
	out := string(b.Finish())
	assert.Equal(t, 1, strings.Count(out, "Tm"))
}

func TestAppendGlyphAdvancesCursorAppendRawDoesNot(t *testing.T) {
	b := NewBuilder()
	start := b.CurrentE()
	b.AppendRaw([]byte("hy"))
	assert.Equal(t, start, b.CurrentE())
	b.AppendGlyph('h', fixedpoint.From(5500, 1000))
	assert.Equal(t, fixedpoint.Add(start, fixedpoint.From(5500, 1000)), b.CurrentE())
}

func TestFlushEmitsTjWithEscapedBytes(t *testing.T) {
	b := NewBuilder()
	b.AppendGlyph('h', fixedpoint.Zero)
	b.AppendGlyph(')', fixedpoint.Zero)
	b.Newline()
	out := string(b.Finish())
	assert.Contains(t, out, `(h\)) Tj`)
}

func TestInterWordWidthOnlyEmittedOnChange(t *testing.T) {
	b := NewBuilder()
	w := fixedpoint.From(2750, 1000)
	b.SetInterWordWidth(w)
	b.SetInterWordWidth(w)
	out := string(b.Finish())
	assert.Equal(t, 1, strings.Count(out, "Tw"))
}
