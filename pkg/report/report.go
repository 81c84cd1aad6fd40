package report

// Kind identifies the visualization shape the backend selected for a report.
type Kind string

const (
	KindTable       Kind = "table"
	KindBarChart    Kind = "bar_chart"
	KindPieChart    Kind = "pie_chart"
	KindLineChart   Kind = "line_chart"
	KindScatterPlot Kind = "scatter_plot"
	KindTextSummary Kind = "text_summary"
)

// Valid reports whether k is one of the recognized report kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindTable, KindBarChart, KindPieChart, KindLineChart, KindScatterPlot, KindTextSummary:
		return true
	}
	return false
}

// Report is a structured analytical payload extracted from assistant output.
// Rows are flat records ready to feed a chart or table; Insights are the
// narrative bullets the backend attached to the data.
type Report struct {
	Kind     Kind             `json:"kind"`
	Title    string           `json:"title"`
	Rows     []map[string]any `json:"rows"`
	XField   string           `json:"x_field,omitempty"`
	YField   string           `json:"y_field,omitempty"`
	Insights []string         `json:"insights"`
}
