package report

import (
	"encoding/json"
	"regexp"
	"strings"
)

// The backend embeds reports in assistant text either as a whole-body JSON
// object or inside a fenced code block. Both shapes carry the same fields;
// older revisions put title/data at the top level, newer ones nest them
// under visualization_data.
type wirePayload struct {
	Kind                  string           `json:"kind"`
	SelectedVisualization string           `json:"selected_visualization"`
	VisualizationData     *wireVizData     `json:"visualization_data"`
	Title                 string           `json:"title"`
	Data                  []map[string]any `json:"data"`
	XField                string           `json:"x_field"`
	YField                string           `json:"y_field"`
	Insights              []string         `json:"insights"`
}

type wireVizData struct {
	Title  string           `json:"title"`
	Data   []map[string]any `json:"data"`
	XField string           `json:"x_field"`
	YField string           `json:"y_field"`
}

var (
	fenceRe    = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*[ \t]*\r?\n?(.*?)```")
	blankRe    = regexp.MustCompile(`\n{3,}`)
	insightsRe = regexp.MustCompile(`(?im)^(?:#+\s*|\*\*)?key insights(?:\*\*)?:?[ \t]*\n(?:[ \t]*[-*•].*\n?)*`)
)

// Parse attempts to interpret raw as a structured report. It returns false
// when raw is not JSON, carries no recognized report kind, or lacks a data
// collection. It never returns an error: a bad candidate is simply not a
// report.
func Parse(raw string) (*Report, bool) {
	var p wirePayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, false
	}

	kind := p.SelectedVisualization
	if kind == "" {
		kind = p.Kind
	}
	k := Kind(kind)
	if !k.Valid() {
		return nil, false
	}

	title := p.Title
	rows := p.Data
	xField := p.XField
	yField := p.YField
	if p.VisualizationData != nil {
		if p.VisualizationData.Title != "" {
			title = p.VisualizationData.Title
		}
		if p.VisualizationData.Data != nil {
			rows = p.VisualizationData.Data
		}
		if p.VisualizationData.XField != "" {
			xField = p.VisualizationData.XField
		}
		if p.VisualizationData.YField != "" {
			yField = p.VisualizationData.YField
		}
	}

	// A report without its record collection is a false positive, not a
	// report with zero rows. An explicit empty array is fine.
	if rows == nil {
		return nil, false
	}

	insights := p.Insights
	if insights == nil {
		insights = []string{}
	}

	return &Report{
		Kind:     k,
		Title:    title,
		Rows:     rows,
		XField:   xField,
		YField:   yField,
		Insights: insights,
	}, true
}

// FromParts builds a report from the discrete fields some backend events
// carry instead of an embedded payload. data holds the visualization data
// object; it may be empty when the report has no rows yet.
func FromParts(kind string, data []byte, insights []string) (*Report, bool) {
	k := Kind(kind)
	if !k.Valid() {
		return nil, false
	}
	var viz wireVizData
	if len(data) > 0 {
		if err := json.Unmarshal(data, &viz); err != nil {
			return nil, false
		}
	}
	rows := viz.Data
	if rows == nil {
		rows = []map[string]any{}
	}
	if insights == nil {
		insights = []string{}
	}
	return &Report{
		Kind:     k,
		Title:    viz.Title,
		Rows:     rows,
		XField:   viz.XField,
		YField:   viz.YField,
		Insights: insights,
	}, true
}

// Extract looks for an embedded structured report in text and separates it
// from the narrative remainder. Detection order: whole-body JSON first, then
// fenced code blocks. When nothing matches, the original text is returned
// sanitized. Extract is safe to call repeatedly on a growing buffer: once a
// complete valid report is present the parsed result is stable.
func Extract(text string) (*Report, string) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		if r, ok := Parse(trimmed); ok {
			return r, ""
		}
	}

	for _, m := range fenceRe.FindAllStringSubmatchIndex(text, -1) {
		inner := strings.TrimSpace(text[m[2]:m[3]])
		if r, ok := Parse(inner); ok {
			return r, Sanitize(text[:m[0]] + text[m[1]:])
		}
	}

	return nil, Sanitize(text)
}

// Sanitize strips residue a report extraction can leave behind: fenced
// blocks still carrying report marker fields, stray marker-bearing object
// literals, and a "Key insights" heading block that duplicates the report's
// structured insights. Blank runs are collapsed afterwards.
func Sanitize(text string) string {
	text = fenceRe.ReplaceAllStringFunc(text, func(block string) string {
		if hasMarker(block) {
			return ""
		}
		return block
	})
	text = stripMarkerObjects(text)
	text = insightsRe.ReplaceAllString(text, "")
	text = blankRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func hasMarker(s string) bool {
	return strings.Contains(s, `"selected_visualization"`) ||
		strings.Contains(s, `"visualization_data"`)
}

// stripMarkerObjects removes balanced {...} literals that contain report
// marker fields. Unbalanced braces are left alone so a streaming prefix is
// never truncated mid-object.
func stripMarkerObjects(text string) string {
	var out strings.Builder
	i := 0
	for i < len(text) {
		if text[i] != '{' {
			out.WriteByte(text[i])
			i++
			continue
		}
		end, ok := matchBrace(text, i)
		if ok && hasMarker(text[i:end]) {
			i = end
			continue
		}
		out.WriteByte(text[i])
		i++
	}
	return out.String()
}

// matchBrace returns the index just past the brace that closes the object
// opening at start. String literals are skipped so braces inside them do not
// count.
func matchBrace(text string, start int) (int, bool) {
	depth := 0
	inString := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}
