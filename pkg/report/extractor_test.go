package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const barChartJSON = `{"selected_visualization":"bar_chart","visualization_data":{"title":"X","data":[{"a":1}]},"insights":["i1"]}`

func TestExtractFencedReport(t *testing.T) {
	text := "```json\n" + barChartJSON + "\n```"

	r, cleaned := Extract(text)
	require.NotNil(t, r)
	assert.Equal(t, KindBarChart, r.Kind)
	assert.Equal(t, "X", r.Title)
	assert.Len(t, r.Rows, 1)
	assert.Equal(t, []string{"i1"}, r.Insights)
	assert.Empty(t, cleaned)
}

func TestExtractFencedReportWithoutLanguageTag(t *testing.T) {
	text := "Here you go:\n```\n" + barChartJSON + "\n```\nDone."

	r, cleaned := Extract(text)
	require.NotNil(t, r)
	assert.Equal(t, KindBarChart, r.Kind)
	assert.Equal(t, "Here you go:\n\nDone.", cleaned)
}

func TestExtractWholeBodyJSON(t *testing.T) {
	r, cleaned := Extract(barChartJSON)
	require.NotNil(t, r)
	assert.Equal(t, KindBarChart, r.Kind)
	assert.Empty(t, cleaned)
}

func TestExtractTopLevelFields(t *testing.T) {
	raw := `{"kind":"line_chart","title":"Trend","data":[{"x":1,"y":2},{"x":2,"y":3}],"x_field":"x","y_field":"y","insights":[]}`

	r, cleaned := Extract(raw)
	require.NotNil(t, r)
	assert.Equal(t, KindLineChart, r.Kind)
	assert.Equal(t, "Trend", r.Title)
	assert.Equal(t, "x", r.XField)
	assert.Equal(t, "y", r.YField)
	assert.Len(t, r.Rows, 2)
	assert.Empty(t, r.Insights)
	assert.Empty(t, cleaned)
}

func TestExtractMalformedJSONDoesNotPanic(t *testing.T) {
	inputs := []string{
		"{not json",
		"{\"selected_visualization\":",
		"```json\n{broken\n```",
		"{}",
		"",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			r, _ := Extract(in)
			assert.Nil(t, r)
		}, "input %q", in)
	}
}

func TestExtractRejectsUnrecognizedKind(t *testing.T) {
	// Not a recognized kind, so no report; the marker-bearing literal is
	// stripped from the narrative rather than shown raw.
	r, cleaned := Extract(`{"selected_visualization":"hologram","visualization_data":{"data":[]},"insights":[]}`)
	assert.Nil(t, r)
	assert.Empty(t, cleaned)
}

func TestExtractRejectsMissingDataCollection(t *testing.T) {
	r, _ := Extract(`{"selected_visualization":"table","insights":["i"]}`)
	assert.Nil(t, r)
}

func TestExtractAcceptsEmptyRowsAndInsights(t *testing.T) {
	r, _ := Extract(`{"selected_visualization":"text_summary","visualization_data":{"title":"S","data":[]}}`)
	require.NotNil(t, r)
	assert.Empty(t, r.Rows)
	assert.NotNil(t, r.Insights)
	assert.Empty(t, r.Insights)
}

func TestExtractStableAcrossGrowingPrefixes(t *testing.T) {
	full := "The numbers are in.\n```json\n" + barChartJSON + "\n```\nLet me know if you need more."

	// Every prefix long enough to contain the complete fenced report must
	// yield the identical parsed result.
	reportEnd := len("The numbers are in.\n```json\n"+barChartJSON+"\n```") + 0
	var first *Report
	for i := reportEnd; i <= len(full); i++ {
		r, _ := Extract(full[:i])
		require.NotNil(t, r, "prefix of length %d", i)
		if first == nil {
			first = r
		} else {
			assert.Equal(t, first, r, "prefix of length %d", i)
		}
	}
}

func TestExtractLeavesOrdinaryCodeFences(t *testing.T) {
	text := "Use this:\n```go\nfmt.Println(\"hi\")\n```\nThat's all."

	r, cleaned := Extract(text)
	assert.Nil(t, r)
	assert.Equal(t, text, cleaned)
}

func TestSanitizeStripsMarkerObjects(t *testing.T) {
	text := "Summary above.\n" + barChartJSON + "\nSummary below."

	cleaned := Sanitize(text)
	assert.NotContains(t, cleaned, "selected_visualization")
	assert.Contains(t, cleaned, "Summary above.")
	assert.Contains(t, cleaned, "Summary below.")
}

func TestSanitizeKeepsUnbalancedBraces(t *testing.T) {
	text := `streaming prefix {"selected_visualization":"bar_`
	assert.Equal(t, text, Sanitize(text))
}

func TestSanitizeStripsKeyInsightsBlock(t *testing.T) {
	text := "Revenue grew 12%.\n\n**Key Insights**\n- i1\n- i2\n"

	cleaned := Sanitize(text)
	assert.Equal(t, "Revenue grew 12%.", cleaned)
}

func TestSanitizeCollapsesBlankRuns(t *testing.T) {
	cleaned := Sanitize("a\n\n\n\n\nb")
	assert.Equal(t, "a\n\nb", cleaned)
}

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{KindTable, KindBarChart, KindPieChart, KindLineChart, KindScatterPlot, KindTextSummary} {
		assert.True(t, k.Valid(), string(k))
	}
	assert.False(t, Kind("gauge").Valid())
	assert.False(t, Kind("").Valid())
}

func TestParseFieldByteEquality(t *testing.T) {
	raw := `{"selected_visualization":"pie_chart","visualization_data":{"title":"Share","data":[{"label":"a","value":3}],"x_field":"label","y_field":"value"},"insights":["one","two"]}`

	r1, ok1 := Parse(raw)
	r2, ok2 := Parse(raw)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, r1, r2)
	assert.Equal(t, "Share", r1.Title)
	assert.Equal(t, "label", r1.XField)
	assert.Equal(t, "value", r1.YField)
}

func TestFromParts(t *testing.T) {
	r, ok := FromParts("bar_chart", []byte(`{"title":"Totals","data":[{"region":"west","total":9}],"x_field":"region","y_field":"total"}`), []string{"west leads"})
	require.True(t, ok)
	assert.Equal(t, KindBarChart, r.Kind)
	assert.Equal(t, "Totals", r.Title)
	assert.Len(t, r.Rows, 1)
	assert.Equal(t, []string{"west leads"}, r.Insights)

	r, ok = FromParts("text_summary", nil, nil)
	require.True(t, ok)
	assert.NotNil(t, r.Rows)
	assert.NotNil(t, r.Insights)

	_, ok = FromParts("gauge", nil, nil)
	assert.False(t, ok)

	_, ok = FromParts("bar_chart", []byte(`not json`), nil)
	assert.False(t, ok)
}
