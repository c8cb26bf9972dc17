// Package pdfwriter serializes a model.Document as a classic
// (pre-1.5), uncompressed, unencrypted PDF 1.1 file: header, one
// indirect object per arena entry, a plain cross-reference table, and
// a trailer — with byte-accurate offset accounting throughout.
package pdfwriter

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sschober/gropdf/core"
	"github.com/sschober/gropdf/errs"
	"github.com/sschober/gropdf/model"
)

// binaryMarker is the comment line following the header, its four
// high-bit-set bytes telling a transport layer the file is binary.
var binaryMarker = []byte{0xE2, 0xE3, 0xCF, 0xD3}

// Write serializes doc to w as a complete PDF file, flushing before
// returning. The only error it can return is errs.Io, wrapping the
// underlying writer's failure.
func Write(w io.Writer, doc *model.Document) error {
	bw := bufio.NewWriter(w)
	pos := int64(0)

	write := func(p []byte) error {
		n, err := bw.Write(p)
		pos += int64(n)
		return err
	}
	writeString := func(s string) error {
		return write([]byte(s))
	}

	if err := writeString("%PDF-1.1\n"); err != nil {
		return errs.Wrap(errs.Io, err, "writing header")
	}
	if err := write(append([]byte("%"), binaryMarker...)); err != nil {
		return errs.Wrap(errs.Io, err, "writing binary marker")
	}
	if err := writeString("\n"); err != nil {
		return errs.Wrap(errs.Io, err, "writing header")
	}

	objects := doc.Objects()
	offsets := make([]int64, len(objects))

	for i, obj := range objects {
		offsets[i] = pos
		if err := writeString(fmt.Sprintf("%d 0 obj\n", obj.ObjectNumber)); err != nil {
			return errs.Wrap(errs.Io, err, "writing object %d header", obj.ObjectNumber)
		}
		if err := writeString(body(doc, obj)); err != nil {
			return errs.Wrap(errs.Io, err, "writing object %d body", obj.ObjectNumber)
		}
		if err := writeString("endobj\n"); err != nil {
			return errs.Wrap(errs.Io, err, "writing object %d trailer", obj.ObjectNumber)
		}
	}

	xrefStart := pos
	if err := writeString(fmt.Sprintf("xref\n0 %d\n", len(objects)+1)); err != nil {
		return errs.Wrap(errs.Io, err, "writing xref header")
	}
	if err := writeString("0000000000 65535 f \n"); err != nil {
		return errs.Wrap(errs.Io, err, "writing xref free entry")
	}
	for _, off := range offsets {
		if err := writeString(fmt.Sprintf("%010d 00000 n \n", off)); err != nil {
			return errs.Wrap(errs.Io, err, "writing xref entry")
		}
	}

	trailer := core.MakeDict()
	trailer.Set("Root", core.Reference{ObjectNumber: doc.CatalogObjectNumber()})
	trailer.Set("Size", core.Integer(len(objects)+1))
	if err := writeString("trailer\n" + trailer.WriteString() + "\n"); err != nil {
		return errs.Wrap(errs.Io, err, "writing trailer")
	}
	if err := writeString(fmt.Sprintf("startxref\n%d\n%%%%EOF", xrefStart)); err != nil {
		return errs.Wrap(errs.Io, err, "writing startxref")
	}

	if err := bw.Flush(); err != nil {
		return errs.Wrap(errs.Io, err, "flushing output")
	}
	return nil
}

// body renders the dictionary-or-stream body of one arena object,
// dispatching on its tag per §3.3/§4.6.
func body(doc *model.Document, obj *model.Object) string {
	switch obj.Kind {
	case model.KindCatalog:
		d := core.MakeDict()
		d.Set("Type", core.Name("Catalog"))
		d.Set("Pages", core.Reference{ObjectNumber: obj.Catalog.PagesRoot})
		return d.WriteString() + "\n"

	case model.KindPagesRoot:
		kids := core.MakeArray()
		for _, k := range obj.Pages.Kids {
			kids.Append(core.Reference{ObjectNumber: k})
		}
		d := core.MakeDict()
		d.Set("Type", core.Name("Pages"))
		d.Set("Kids", kids)
		d.Set("Count", core.Integer(obj.Pages.Count()))
		return d.WriteString() + "\n"

	case model.KindPage:
		p := obj.Page
		fontDict := core.MakeDict()
		for _, fontObjNum := range p.FontSlotOrder() {
			slot := p.FontSlots[fontObjNum]
			fontDict.Set(core.Name(fmt.Sprintf("F%d", slot)), core.Reference{ObjectNumber: fontObjNum})
		}
		resources := core.MakeDict()
		resources.Set("Font", fontDict)
		d := core.MakeDict()
		d.Set("Type", core.Name("Page"))
		d.Set("Parent", core.Reference{ObjectNumber: doc.PagesRootObjectNumber()})
		d.Set("Contents", core.Reference{ObjectNumber: p.ContentStream})
		d.Set("MediaBox", core.MakeArray(core.Integer(0), core.Integer(0), core.Integer(int64(p.MediaBoxWidth)), core.Integer(int64(p.MediaBoxHeight))))
		d.Set("Resources", resources)
		return d.WriteString() + "\n"

	case model.KindFont:
		d := core.MakeDict()
		d.Set("Type", core.Name("Font"))
		d.Set("BaseFont", core.Name(obj.Font.BaseFont))
		d.Set("Subtype", core.Name("Type1"))
		return d.WriteString() + "\n"

	case model.KindStream:
		data := obj.Stream.Data
		d := core.MakeDict()
		d.Set("Length", core.Integer(int64(len(data))))
		return d.WriteString() + "\nstream\n" + string(data) + "\nendstream\n"
	}
	return "<<>>\n"
}
