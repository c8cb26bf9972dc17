package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentHasCatalogAndPagesRoot(t *testing.T) {
	d := NewDocument()
	require.Len(t, d.Objects(), 2)
	assert.Equal(t, KindPagesRoot, d.Objects()[0].Kind)
	assert.Equal(t, KindCatalog, d.Objects()[1].Kind)
	assert.Equal(t, d.PagesRootObjectNumber(), d.Objects()[1].Catalog.PagesRoot)
}

func TestRegisterFontIsIdempotentPerShortName(t *testing.T) {
	d := NewDocument()
	a := d.RegisterFont("TR", "Times-Roman")
	b := d.RegisterFont("TR", "Times-Roman")
	assert.Equal(t, a, b)
	assert.Len(t, d.Objects(), 3)
}

func TestAddPageLinksIntoPagesRoot(t *testing.T) {
	d := NewDocument()
	p1 := d.AddPage(612, 792)
	p2 := d.AddPage(595, 842)
	root := d.Objects()[d.PagesRootObjectNumber()-1].Pages
	assert.Equal(t, []int{p1, p2}, root.Kids)
	assert.Equal(t, 2, root.Count())
}

func TestPageFontSlotAssignsDenseSlotsPerPage(t *testing.T) {
	d := NewDocument()
	fontA := d.RegisterFont("TR", "Times-Roman")
	fontB := d.RegisterFont("TB", "Times-Bold")
	page := d.AddPage(612, 792)

	slotA := d.PageFontSlot(page, fontA)
	slotB := d.PageFontSlot(page, fontB)
	slotAAgain := d.PageFontSlot(page, fontA)

	assert.Equal(t, 0, slotA)
	assert.Equal(t, 1, slotB)
	assert.Equal(t, slotA, slotAAgain)
}

func TestSetContentStoresBytesOnThePagesStream(t *testing.T) {
	d := NewDocument()
	page := d.AddPage(612, 792)
	d.SetContent(page, []byte("BT\nET\n"))
	streamNum := d.ContentStreamOf(page)
	assert.Equal(t, []byte("BT\nET\n"), d.Objects()[streamNum-1].Stream.Data)
}
