package format

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/pryce-dev/vantage/pkg/chat"
	"github.com/pryce-dev/vantage/pkg/report"
)

// Formatter renders messages and reports for a terminal. Width bounds boxed
// content; zero means an 80 column default.
type Formatter struct {
	width           int
	chromaFormatter chroma.Formatter
}

func NewFormatter(width int) *Formatter {
	if width <= 0 {
		width = 80
	}
	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	return &Formatter{
		width:           width,
		chromaFormatter: formatter,
	}
}

var codeBlockRe = regexp.MustCompile("(?s)```([a-zA-Z0-9_-]*)[ \t]*\r?\n?(.*?)```")

// FormatMessage renders one chat entry: role prefix, highlighted narrative
// and, when present, the report box.
func (f *Formatter) FormatMessage(msg chat.Message) string {
	var b strings.Builder

	if msg.IsUser() {
		b.WriteString(userPrefixStyle.Render("you") + "  ")
	} else {
		b.WriteString(assistantPrefixStyle.Render("vantage") + "  ")
	}

	content := msg.Content
	switch {
	case msg.IsFlagged():
		b.WriteString(flaggedStyle.Render(content))
	case msg.IsStreaming && content == "":
		b.WriteString(streamingStyle.Render("…"))
	default:
		b.WriteString(f.renderBody(content))
	}

	if msg.Report != nil {
		b.WriteString("\n")
		b.WriteString(f.FormatReport(msg.Report))
	}
	return b.String()
}

// renderBody highlights fenced code blocks and styles the rest.
func (f *Formatter) renderBody(text string) string {
	var out strings.Builder
	last := 0
	for _, m := range codeBlockRe.FindAllStringSubmatchIndex(text, -1) {
		out.WriteString(bodyStyle.Render(text[last:m[0]]))
		lang := text[m[2]:m[3]]
		code := strings.TrimRight(text[m[4]:m[5]], "\n")
		out.WriteString("\n" + f.highlight(code, lang) + "\n")
		last = m[1]
	}
	out.WriteString(bodyStyle.Render(text[last:]))
	return out.String()
}

func (f *Formatter) highlight(code, language string) string {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf strings.Builder
	if err := f.chromaFormatter.Format(&buf, styles.Get("monokai"), iterator); err != nil {
		return code
	}
	return buf.String()
}

const maxTableRows = 20

// FormatReport renders a structured report as a titled box: kind label, a
// column-aligned table of the rows and the insight list.
func (f *Formatter) FormatReport(r *report.Report) string {
	var b strings.Builder

	title := r.Title
	if title == "" {
		title = "Report"
	}
	b.WriteString(reportTitleStyle.Render(title))
	b.WriteString("  " + reportKindStyle.Render("["+string(r.Kind)+"]") + "\n")

	if len(r.Rows) > 0 {
		b.WriteString(f.renderTable(r))
	} else {
		b.WriteString(bodyStyle.Render("(no rows)") + "\n")
	}

	for _, insight := range r.Insights {
		b.WriteString(insightStyle.Render("• "+insight) + "\n")
	}

	return reportBoxStyle.Width(f.width - 4).Render(strings.TrimRight(b.String(), "\n"))
}

func (f *Formatter) renderTable(r *report.Report) string {
	cols := columnOrder(r)
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}

	rows := r.Rows
	truncated := 0
	if len(rows) > maxTableRows {
		truncated = len(rows) - maxTableRows
		rows = rows[:maxTableRows]
	}

	cells := make([][]string, len(rows))
	for ri, row := range rows {
		cells[ri] = make([]string, len(cols))
		for ci, c := range cols {
			v := cellString(row[c])
			cells[ri][ci] = v
			if len(v) > widths[ci] {
				widths[ci] = len(v)
			}
		}
	}

	var b strings.Builder
	for ci, c := range cols {
		b.WriteString(tableHeaderStyle.Render(pad(c, widths[ci])))
		if ci < len(cols)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")
	for _, row := range cells {
		for ci, v := range row {
			b.WriteString(bodyStyle.Render(pad(v, widths[ci])))
			if ci < len(row)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}
	if truncated > 0 {
		b.WriteString(streamingStyle.Render(fmt.Sprintf("… %d more rows", truncated)) + "\n")
	}
	return b.String()
}

// columnOrder puts the chart axes first, then the remaining columns
// alphabetically. Maps have no order of their own.
func columnOrder(r *report.Report) []string {
	seen := map[string]bool{}
	var cols []string
	for _, axis := range []string{r.XField, r.YField} {
		if axis != "" && !seen[axis] {
			cols = append(cols, axis)
			seen[axis] = true
		}
	}

	var rest []string
	for _, row := range r.Rows {
		for k := range row {
			if !seen[k] {
				rest = append(rest, k)
				seen[k] = true
			}
		}
	}
	sort.Strings(rest)
	return append(cols, rest...)
}

func cellString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
