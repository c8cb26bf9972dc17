// Command gropdf is the pdf output device: it reads the intermediate
// typesetting language on standard input and writes a PDF 1.1 file to
// standard output.
//
// Usage: gropdf [-d] [-w] < input > output.pdf
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sschober/gropdf/common"
	"github.com/sschober/gropdf/dispatch"
	"github.com/sschober/gropdf/errs"
	"github.com/sschober/gropdf/model"
	"github.com/sschober/gropdf/pdfwriter"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out io.Writer, stderr io.Writer) int {
	debug, warn := parseFlags(args, stderr)
	common.SetLogger(common.NewWriterLogger(stderr, warn, debug))

	doc := model.NewDocument()
	d := dispatch.New()

	if err := d.Run(in, doc); err != nil {
		reportFatal(stderr, err)
		return 1
	}
	d.Finalize()

	if err := pdfwriter.Write(out, doc); err != nil {
		reportFatal(stderr, err)
		return 1
	}
	return 0
}

// parseFlags hand-scans args rather than using package flag: an
// unrecognized flag here must warn and continue, not abort, and there
// are only ever two of them.
func parseFlags(args []string, stderr io.Writer) (debug, warn bool) {
	for _, a := range args {
		switch a {
		case "-d":
			debug = true
		case "-w":
			warn = true
		default:
			fmt.Fprintf(stderr, "[WARNING] unrecognized flag %q, ignoring\n", a)
		}
	}
	return debug, warn
}

func reportFatal(stderr io.Writer, err error) {
	if e, ok := err.(*errs.Error); ok {
		fmt.Fprintf(stderr, "gropdf: %s\n", e.Error())
		return
	}
	fmt.Fprintf(stderr, "gropdf: %v\n", err)
}
