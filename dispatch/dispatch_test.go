package dispatch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sschober/gropdf/model"
)

const trDescription = `name Times-Roman
charset
space	250,0	 	32
h	556,0	 	104
e	444,0	 	101
l	278,0	 	108
o	500,0	 	111
hy	333,0	 	45
`

func withTestFont(t *testing.T, short, body string) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "font", "devpdf")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, short), []byte(body), 0o644))
	t.Setenv("GROPDF_FONT_PATH", root)
}

func runScript(t *testing.T, script string) (*model.Document, error) {
	t.Helper()
	doc := model.NewDocument()
	d := New()
	err := d.Run(strings.NewReader(script), doc)
	if err == nil {
		d.Finalize()
	}
	return doc, err
}

func TestMinimalOnePageDocument(t *testing.T) {
	withTestFont(t, "TR", trDescription)
	script := strings.Join([]string{
		"x T pdf",
		"x res 72000 1 1",
		"x init",
		"x font 1 TR",
		"p 1",
		"f1",
		"s11000",
		"V100000",
		"H72000",
		"thello",
		"",
	}, "\n")
	doc, err := runScript(t, script)
	require.NoError(t, err)

	var pageNum int
	for _, obj := range doc.Objects() {
		if obj.Kind == model.KindPage {
			pageNum = obj.ObjectNumber
		}
	}
	require.NotZero(t, pageNum)
	page := doc.Objects()[pageNum-1].Page
	assert.Equal(t, 612, page.MediaBoxWidth)
	assert.Equal(t, 792, page.MediaBoxHeight)

	streamNum := doc.ContentStreamOf(pageNum)
	content := string(doc.Objects()[streamNum-1].Stream.Data)
	assert.Contains(t, content, "BT")
	assert.Contains(t, content, "/F0 11. Tf")
	assert.Contains(t, content, "72.000")
	assert.Contains(t, content, "(hello) Tj")
	assert.Contains(t, content, "ET")
}

func TestPapersizeOverride(t *testing.T) {
	withTestFont(t, "TR", trDescription)
	script := strings.Join([]string{
		"x T pdf",
		"x res 72000 1 1",
		"x init",
		"x font 1 TR",
		"x X papersize=595000z,842000z",
		"p 1",
		"f1",
		"s11000",
		"thello",
		"",
	}, "\n")
	doc, err := runScript(t, script)
	require.NoError(t, err)

	var page *model.Page
	for _, obj := range doc.Objects() {
		if obj.Kind == model.KindPage {
			page = obj.Page
		}
	}
	require.NotNil(t, page)
	assert.Equal(t, 595, page.MediaBoxWidth)
	assert.Equal(t, 842, page.MediaBoxHeight)
}

func TestSpecialGlyphDoesNotAdvanceCursor(t *testing.T) {
	withTestFont(t, "TR", trDescription)
	script := strings.Join([]string{
		"x T pdf",
		"x res 72000 1 1",
		"x init",
		"x font 1 TR",
		"p 1",
		"f1",
		"s11000",
		"H72000",
		"Chy",
		"thello",
		"h0",
		"",
	}, "\n")
	doc, err := runScript(t, script)
	require.NoError(t, err)

	var streamNum int
	for _, obj := range doc.Objects() {
		if obj.Kind == model.KindPage {
			streamNum = doc.ContentStreamOf(obj.ObjectNumber)
		}
	}
	content := string(doc.Objects()[streamNum-1].Stream.Data)
	idx := strings.Index(content, `(`)
	require.GreaterOrEqual(t, idx, 0)
	assert.Contains(t, content, "(-hello) Tj")
	// "h0" re-emits the cursor: 72 plus hello's widths at 11pt
	// (556+444+278+278+500)*11/1000 = 22.616, with nothing for the hyphen.
	assert.Contains(t, content, "1 0 0 1 94.616 0.000 Tm")
}

func TestWrongDeviceIsFatal(t *testing.T) {
	_, err := runScript(t, "x T ps\n")
	require.Error(t, err)
}

func TestTBeforeAnyPageIsStateViolation(t *testing.T) {
	withTestFont(t, "TR", trDescription)
	script := strings.Join([]string{
		"x T pdf",
		"x res 72000 1 1",
		"x init",
		"thello",
		"",
	}, "\n")
	_, err := runScript(t, script)
	require.Error(t, err)
}

func TestTwoPagesProduceTwoPageObjectsWithCorrectCount(t *testing.T) {
	withTestFont(t, "TR", trDescription)
	script := strings.Join([]string{
		"x T pdf",
		"x res 72000 1 1",
		"x init",
		"x font 1 TR",
		"p 1",
		"f1",
		"s11000",
		"H72000",
		"V100000",
		"thello",
		"p 2",
		"f1",
		"H72000",
		"V100000",
		"tworld",
		"",
	}, "\n")
	doc, err := runScript(t, script)
	require.NoError(t, err)

	pagesRoot := doc.Objects()[doc.PagesRootObjectNumber()-1].Pages
	assert.Equal(t, 2, pagesRoot.Count())
	assert.Len(t, pagesRoot.Kids, 2)
}
