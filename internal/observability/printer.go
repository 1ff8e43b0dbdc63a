// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-wizard/internal/db"
	"github.com/jonathan/resume-wizard/internal/types"
)

// boxWidth is the default width for formatted output boxes
const boxWidth = 60

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDraft outputs a human-readable summary of a draft record.
func (p *Printer) PrintDraft(d *db.Draft) {
	if d == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Request:  %s\n", d.RequestID))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", d.Status))
	sb.WriteString(fmt.Sprintf("Dirty:    %t\n", d.Dirty))
	sb.WriteString(fmt.Sprintf("Version:  %d", d.Version))

	p.printBox("Draft", sb.String())
}

// PrintSections outputs every generated section in display order, pretty-
// printing each effective payload.
func (p *Printer) PrintSections(result map[types.SectionType]json.RawMessage) {
	for _, sectionType := range types.SectionOrder {
		payload, ok := result[sectionType]
		if !ok {
			continue
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, payload, "", "  "); err != nil {
			pretty.Reset()
			pretty.Write(payload)
		}
		p.printBox(string(sectionType), pretty.String())
	}
}
