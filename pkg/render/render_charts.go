package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yumyai/knowdegs/pkg/model"
)

// Fixed chart colors. Up/down mirror the regulation classes, skyblue is
// the enrichment bar color.
const (
	colorUp      = "#008000"
	colorDown    = "#FF0000"
	colorEnrich  = "#87CEEB"
	colorAxis    = "#333333"
	chartPadding = 40
)

// bar is one rectangle of computed geometry, ready for the SVG template.
type bar struct {
	X, Y          int
	Width, Height int
	Color         string
	Label         string
	Value         string
}

var regulationChartTemplate *template.Template
var enrichmentChartTemplate *template.Template

func init() {
	regulationTmpl := `
	<svg width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" role="img" aria-label="Gene regulation summary">
		<line x1="{{.AxisX}}" y1="{{.AxisTop}}" x2="{{.AxisX}}" y2="{{.AxisBottom}}" stroke="{{.AxisColor}}"/>
		<line x1="{{.AxisX}}" y1="{{.AxisBottom}}" x2="{{.AxisRight}}" y2="{{.AxisBottom}}" stroke="{{.AxisColor}}"/>
		<text x="14" y="{{.MidY}}" transform="rotate(-90 14 {{.MidY}})" text-anchor="middle" font-size="12">Gene Count</text>
		{{range .Bars}}
		<rect x="{{.X}}" y="{{.Y}}" width="{{.Width}}" height="{{.Height}}" fill="{{.Color}}"/>
		<text x="{{.LabelX}}" y="{{.LabelY}}" text-anchor="middle" font-size="12">{{.Label}}</text>
		<text x="{{.LabelX}}" y="{{.ValueY}}" text-anchor="middle" font-size="12">{{.Value}}</text>
		{{end}}
	</svg>`

	enrichmentTmpl := `
	<svg width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" role="img" aria-label="Top KEGG pathway enrichment">
		<text x="{{.MidX}}" y="18" text-anchor="middle" font-size="14">Top KEGG Pathway Enrichment</text>
		{{range .Bars}}
		<rect x="{{.X}}" y="{{.Y}}" width="{{.Width}}" height="{{.Height}}" fill="{{.Color}}"/>
		<text x="{{.LabelX}}" y="{{.LabelY}}" text-anchor="end" font-size="11">{{.Label}}</text>
		<text x="{{.ValueX}}" y="{{.LabelY}}" text-anchor="start" font-size="11">{{.Value}}</text>
		{{end}}
		<line x1="{{.AxisX}}" y1="{{.AxisTop}}" x2="{{.AxisX}}" y2="{{.AxisBottom}}" stroke="{{.AxisColor}}"/>
		<text x="{{.MidX}}" y="{{.XLabelY}}" text-anchor="middle" font-size="12">-log10(P-value)</text>
	</svg>`

	regulationChartTemplate = template.Must(template.New("regulation_chart").Parse(regulationTmpl))
	enrichmentChartTemplate = template.Must(template.New("enrichment_chart").Parse(enrichmentTmpl))
}

type regulationBar struct {
	bar
	LabelX, LabelY int
	ValueY         int
}

type regulationChartData struct {
	Width, Height       int
	AxisX, AxisRight    int
	AxisTop, AxisBottom int
	MidY                int
	AxisColor           string
	Bars                []regulationBar
}

// RegulationChartSVG builds the two-bar up/down count chart. Bars scale
// against the larger of the two counts; a zero-row table still renders
// an empty frame.
func RegulationChartSVG(upCount, downCount int) (template.HTML, error) {
	const width, height = 360, 280
	axisBottom := height - chartPadding
	plotHeight := axisBottom - chartPadding

	maxCount := upCount
	if downCount > maxCount {
		maxCount = downCount
	}

	scale := func(count int) int {
		if maxCount == 0 {
			return 0
		}
		return plotHeight * count / maxCount
	}

	barWidth := 80
	counts := []struct {
		label string
		value int
		color string
	}{
		{"Upregulated", upCount, colorUp},
		{"Downregulated", downCount, colorDown},
	}

	data := regulationChartData{
		Width:      width,
		Height:     height,
		AxisX:      chartPadding,
		AxisRight:  width - chartPadding/2,
		AxisTop:    chartPadding,
		AxisBottom: axisBottom,
		MidY:       height / 2,
		AxisColor:  colorAxis,
	}

	for i, c := range counts {
		barHeight := scale(c.value)
		x := chartPadding + 40 + i*(barWidth+60)
		data.Bars = append(data.Bars, regulationBar{
			bar: bar{
				X:      x,
				Y:      axisBottom - barHeight,
				Width:  barWidth,
				Height: barHeight,
				Color:  c.color,
				Label:  c.label,
				Value:  fmt.Sprintf("%d", c.value),
			},
			LabelX: x + barWidth/2,
			LabelY: axisBottom + 16,
			ValueY: axisBottom - barHeight - 6,
		})
	}

	var buf bytes.Buffer
	if err := regulationChartTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render regulation chart: %w", err)
	}
	return template.HTML(buf.String()), nil
}

type enrichmentBar struct {
	bar
	LabelX, LabelY int
	ValueX         int
}

type enrichmentChartData struct {
	Width, Height       int
	MidX                int
	AxisX               int
	AxisTop, AxisBottom int
	XLabelY             int
	AxisColor           string
	Bars                []enrichmentBar
}

// EnrichmentChartSVG builds the horizontal -log10(P) chart. Terms come
// in service rank order, so the most significant one lands on top.
func EnrichmentChartSVG(terms []model.EnrichmentTerm) (template.HTML, error) {
	const width = 640
	const labelWidth = 240
	const rowHeight = 34
	height := chartPadding + len(terms)*rowHeight + chartPadding

	maxVal := 0.0
	for _, t := range terms {
		if t.NegLog10P > maxVal {
			maxVal = t.NegLog10P
		}
	}

	plotWidth := width - labelWidth - chartPadding - 60
	scale := func(v float64) int {
		if maxVal == 0 {
			return 0
		}
		return int(float64(plotWidth) * v / maxVal)
	}

	data := enrichmentChartData{
		Width:      width,
		Height:     height,
		MidX:       width / 2,
		AxisX:      labelWidth,
		AxisTop:    chartPadding - 10,
		AxisBottom: height - chartPadding + 10,
		XLabelY:    height - 10,
		AxisColor:  colorAxis,
	}

	for i, t := range terms {
		barLength := scale(t.NegLog10P)
		y := chartPadding + i*rowHeight
		data.Bars = append(data.Bars, enrichmentBar{
			bar: bar{
				X:      labelWidth,
				Y:      y,
				Width:  barLength,
				Height: rowHeight - 10,
				Color:  colorEnrich,
				Label:  truncateLabel(t.Term, 38),
				Value:  fmt.Sprintf("%.2f", t.NegLog10P),
			},
			LabelX: labelWidth - 6,
			LabelY: y + (rowHeight-10)/2 + 4,
			ValueX: labelWidth + barLength + 6,
		})
	}

	var buf bytes.Buffer
	if err := enrichmentChartTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render enrichment chart: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func truncateLabel(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
