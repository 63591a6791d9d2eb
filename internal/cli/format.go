package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// fatih/color disables these automatically when output is not a TTY
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	valueColor   = color.New(color.FgHiBlack)
)

// printer renders human-readable output for one command.
type printer struct {
	w io.Writer
}

func newPrinter(cmd *cobra.Command) *printer {
	return &printer{w: cmd.OutOrStdout()}
}

// section prints a header surrounded by blank lines.
func (p *printer) section(title string) {
	_, _ = fmt.Fprintln(p.w)
	_, _ = headerColor.Fprintf(p.w, "▸ %s\n", title)
	_, _ = fmt.Fprintln(p.w)
}

func (p *printer) success(msg string) {
	_, _ = successColor.Fprintf(p.w, "✓ %s\n", msg)
}

func (p *printer) warning(msg string) {
	_, _ = warningColor.Fprintf(p.w, "⚠ %s\n", msg)
}

func (p *printer) info(msg string) {
	_, _ = fmt.Fprintln(p.w, msg)
}

func (p *printer) blank() {
	_, _ = fmt.Fprintln(p.w)
}

// field prints an indented "label: value" line.
func (p *printer) field(label, value string) {
	p.fieldColor(label, value, valueColor)
}

func (p *printer) fieldColor(label, value string, clr *color.Color) {
	_, _ = labelColor.Fprintf(p.w, "  %s: ", label)
	_, _ = clr.Fprintln(p.w, value)
}

// list prints one bullet per item, indented by indent levels.
func (p *printer) list(items []string, indent int) {
	pad := strings.Repeat("  ", indent)
	for _, item := range items {
		_, _ = infoColor.Fprintf(p.w, "%s• %s\n", pad, item)
	}
}

// empty prints a dimmed placeholder for an empty section.
func (p *printer) empty(msg string) {
	_, _ = valueColor.Fprintf(p.w, "  %s\n", msg)
}

// table prints rows under headers with left-aligned, padded columns.
func (p *printer) table(headers []string, rows [][]string) {
	if len(headers) == 0 || len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}

	p.row(headers, widths, headerColor)
	p.row(rule, widths, nil)
	for _, row := range rows {
		p.row(row, widths, valueColor)
	}
}

func (p *printer) row(cells []string, widths []int, clr *color.Color) {
	var b strings.Builder
	b.WriteString("  ")
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		if i > 0 {
			b.WriteString("  ")
		}
		padded := fmt.Sprintf("%-*s", widths[i], cell)
		if clr != nil {
			padded = clr.Sprint(padded)
		}
		b.WriteString(padded)
	}
	_, _ = fmt.Fprintln(p.w, strings.TrimRight(b.String(), " "))
}

// plural formats a count with the matching noun.
func plural(count int, singular, plurals string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plurals)
}
