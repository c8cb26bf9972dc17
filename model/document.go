// Package model holds the PDF document object graph: a document built
// for this translator is always a Catalog, one Pages tree root, zero or
// more Pages, the fonts they reference, and each page's content stream.
//
// The graph is modeled as an arena: objects live in a flat, insertion-
// ordered slice and reference each other by object number (an integer
// handle), never by pointer. Pages point at Pages-root, Pages-root
// points at its Pages; the cycle never has to be walked or broken
// because there are no pointers to cycle through. Serialization (see
// package pdfwriter) walks the arena once, in order.
package model

// ObjectKind discriminates the payload a graph Object carries. Modeling
// the object as a tagged variant over this small, closed set (rather
// than an interface with one implementation per kind) keeps the
// serializer's dispatch a single switch, with no inheritance hierarchy
// to navigate for five variants that will never grow a sixth.
type ObjectKind int

const (
	KindCatalog ObjectKind = iota
	KindPagesRoot
	KindPage
	KindFont
	KindStream
)

// Object is one entry in the document's arena. ObjectNumber is assigned
// densely from 1 when the object is appended; exactly one of the
// payload fields is populated, matching Kind.
type Object struct {
	ObjectNumber int
	Kind         ObjectKind

	Catalog *Catalog
	Pages   *PagesRoot
	Page    *Page
	Font    *Font
	Stream  *ContentStream
}

// Catalog is the document root. It is always present and always points
// at the Pages root.
type Catalog struct {
	PagesRoot int // object number of the Pages root
}

// PagesRoot is the root of the page tree.
type PagesRoot struct {
	Kids []int // object numbers of the Page objects, in document order
}

// Count returns the number of pages under this root.
func (p *PagesRoot) Count() int { return len(p.Kids) }

// Font is a reference to one of the 14 standard Type-1 base fonts. The
// translator never embeds a font program; it only ever emits a name the
// reader is required to already know how to render.
type Font struct {
	BaseFont string // e.g. "Times-Roman"
}

// Page carries its content stream, its media box, and the page-local
// map from font resource slot to document font object. It stores no
// parent link: every page's parent is the document's Pages root.
type Page struct {
	ContentStream  int // object number of this page's content stream
	MediaBoxWidth  int
	MediaBoxHeight int
	// FontSlots maps a page-local resource slot index (the "i" in
	// /Fi) to the object number of a document-scope Font.
	FontSlots map[int]int
	// slotOrder preserves the order slots were first assigned, so the
	// Resources dictionary is written deterministically rather than in
	// Go's randomized map iteration order.
	slotOrder []int
}

// ContentStream is a page's content stream payload: the serialized
// operator bytes built up by content.Builder (see package content).
type ContentStream struct {
	Data []byte
}

// Document owns the arena and the document-scope font registry.
type Document struct {
	objects []*Object

	catalogNum   int
	pagesRootNum int

	// fontObjNumByName maps a font's short groff name (e.g. "TR") to its
	// document-font handle: the object number of its Font object. A
	// font registered once at document scope may be referenced from
	// many pages.
	fontObjNumByName map[string]int
}

// NewDocument constructs a document with its Catalog and Pages root
// already allocated, matching the invariant that both are present even
// for a document with zero pages.
func NewDocument() *Document {
	d := &Document{
		fontObjNumByName: map[string]int{},
	}
	d.pagesRootNum = d.addObject(&Object{Kind: KindPagesRoot, Pages: &PagesRoot{}})
	d.catalogNum = d.addObject(&Object{Kind: KindCatalog, Catalog: &Catalog{PagesRoot: d.pagesRootNum}})
	return d
}

// addObject appends obj to the arena, assigns it the next dense object
// number, and returns that number.
func (d *Document) addObject(obj *Object) int {
	obj.ObjectNumber = len(d.objects) + 1
	d.objects = append(d.objects, obj)
	return obj.ObjectNumber
}

// Objects returns the arena in insertion order, for the serializer.
func (d *Document) Objects() []*Object { return d.objects }

// CatalogObjectNumber returns the object number of the Catalog.
func (d *Document) CatalogObjectNumber() int { return d.catalogNum }

// PagesRootObjectNumber returns the object number of the Pages root.
func (d *Document) PagesRootObjectNumber() int { return d.pagesRootNum }

// pagesRoot returns the PagesRoot payload directly (internal helper;
// the root is always object index pagesRootNum-1 in the arena).
func (d *Document) pagesRoot() *PagesRoot {
	return d.objects[d.pagesRootNum-1].Pages
}

// RegisterFont ensures a document-scope Font object exists for
// shortName, loading width tables being the caller's separate concern
// (see fontfile). Returns the document-font handle: the object number
// of the Font object. Calling it twice with the same shortName returns
// the same handle — "at most one document font per short name".
func (d *Document) RegisterFont(shortName, baseFont string) int {
	if num, ok := d.fontObjNumByName[shortName]; ok {
		return num
	}
	num := d.addObject(&Object{Kind: KindFont, Font: &Font{BaseFont: baseFont}})
	d.fontObjNumByName[shortName] = num
	return num
}

// FontObjectNumber reports the document-font handle previously
// registered for shortName, if any.
func (d *Document) FontObjectNumber(shortName string) (int, bool) {
	num, ok := d.fontObjNumByName[shortName]
	return num, ok
}

// AddPage allocates a new Page with the given media box and an empty
// content stream, links it into the Pages root's Kids list, and returns
// its object number.
func (d *Document) AddPage(mediaBoxWidth, mediaBoxHeight int) int {
	streamNum := d.addObject(&Object{Kind: KindStream, Stream: &ContentStream{}})
	pageNum := d.addObject(&Object{Kind: KindPage, Page: &Page{
		ContentStream:  streamNum,
		MediaBoxWidth:  mediaBoxWidth,
		MediaBoxHeight: mediaBoxHeight,
		FontSlots:      map[int]int{},
	}})
	root := d.pagesRoot()
	root.Kids = append(root.Kids, pageNum)
	return pageNum
}

// page returns the Page payload for a page object number.
func (d *Document) page(pageNum int) *Page {
	return d.objects[pageNum-1].Page
}

// stream returns the ContentStream payload for a stream object number.
func (d *Document) stream(streamNum int) *ContentStream {
	return d.objects[streamNum-1].Stream
}

// ContentStreamOf returns the content stream object number for a page.
func (d *Document) ContentStreamOf(pageNum int) int {
	return d.page(pageNum).ContentStream
}

// SetContent replaces the serialized operator bytes for a page's
// content stream.
func (d *Document) SetContent(pageNum int, data []byte) {
	d.stream(d.page(pageNum).ContentStream).Data = data
}

// PageFontSlot returns the page-local font resource slot (/Fi) for
// fontObjNum on pageNum, registering a new slot — "at most one page-
// font slot per document font per page" — the first time this
// document font is referenced from that page.
func (d *Document) PageFontSlot(pageNum, fontObjNum int) int {
	p := d.page(pageNum)
	if slot, ok := p.FontSlots[fontObjNum]; ok {
		return slot
	}
	slot := len(p.slotOrder)
	p.FontSlots[fontObjNum] = slot
	p.slotOrder = append(p.slotOrder, fontObjNum)
	return slot
}

// FontSlotOrder returns the document font object numbers referenced by
// the page, in the order their slots were first assigned; the slot index
// of each is its FontSlots entry.
func (p *Page) FontSlotOrder() []int { return p.slotOrder }
