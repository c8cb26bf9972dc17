package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrongDeviceExitsNonZeroWithoutEOF(t *testing.T) {
	in := strings.NewReader("x T ps\n")
	var out, stderr bytes.Buffer
	code := run(nil, in, &out, &stderr)
	assert.Equal(t, 1, code)
	assert.NotContains(t, out.String(), "%%EOF")
}

func TestEmptyInputExitsZero(t *testing.T) {
	in := strings.NewReader("")
	var out, stderr bytes.Buffer
	code := run(nil, in, &out, &stderr)
	assert.Equal(t, 0, code)
}

func TestZeroPageDocumentIsStillValidPDF(t *testing.T) {
	in := strings.NewReader("x T pdf\nx res 72000 1 1\nx init\n")
	var out, stderr bytes.Buffer
	code := run(nil, in, &out, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "/Type /Catalog")
	assert.Contains(t, out.String(), "/Type /Pages")
	assert.Contains(t, out.String(), "%%EOF")
}

func TestUnknownFlagWarnsAndContinues(t *testing.T) {
	in := strings.NewReader("")
	var out, stderr bytes.Buffer
	code := run([]string{"-q"}, in, &out, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr.String(), "unrecognized flag")
}
