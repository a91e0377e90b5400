package render

import (
	"html/template"
	"io"
	"strings"

	"github.com/yumyai/knowdegs/logger"
	"github.com/yumyai/knowdegs/pkg/model"
	"go.uber.org/zap"
)

var reportPageTemplate *template.Template
var uploadPageTemplate *template.Template

// ReportPageData carries everything one render pass computed. The
// report template never reaches back into the model.
type ReportPageData struct {
	SessionID string
	Filename  string

	UpCount   int
	DownCount int
	HubCount  int

	TopUp   []*model.DEGRow
	TopDown []*model.DEGRow

	RegulationChart template.HTML

	Annotations []model.Annotation

	EnrichmentTerms []model.EnrichmentTerm
	EnrichmentChart template.HTML
	EnrichmentError string
}

// UploadPageData renders the landing page, optionally with the message
// of a rejected upload.
type UploadPageData struct {
	ErrorMessage string
}

// init initializes the templates used for rendering the HTML pages.
func init() {
	funcs := template.FuncMap{
		"joinGenes": func(genes []string) string { return strings.Join(genes, ", ") },
	}

	uploadTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>KnowDEGs</title>
		<style>
		body { font-family: sans-serif; margin: 2em; }
		.error { color: red; }
		</style>
	</head>
	<body>
		<header class="app-header">
			<h1 class="app-name">KnowDEGs</h1>
			<p class="app-description">
				Your companion for DEG &amp; hub gene exploration.
			</p>
		</header>
		{{ if .ErrorMessage }}
			<p class="error">{{ .ErrorMessage }}</p>
		{{ end }}
		<form action="/upload" method="POST" enctype="multipart/form-data">
			<label>Upload your DEG CSV file:
				<input type="file" name="deg_file" accept=".csv" required></input>
			</label>
			<input type="submit" value="Generate Report"></input>
		</form>
		<p>The file needs a header row with Gene_Symbol, log2(FC) and Padj columns. IsHub is optional.</p>
	</body>
	</html>`

	reportTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>KnowDEGs Report</title>
		<style>
		body { font-family: sans-serif; margin: 2em; }
		table { border-collapse: collapse; margin-bottom: 1em; }
		th, td { border: 1px solid #999; padding: 4px 10px; }
		.metrics { display: flex; gap: 2em; }
		.metric { border: 1px solid #ccc; padding: 1em; text-align: center; }
		.metric .value { font-size: 2em; }
		.error { color: red; }
		.placeholder { color: #666; font-style: italic; }
		</style>
	</head>
	<body>
		<header class="app-header">
			<h1 class="app-name">KnowDEGs Report</h1>
			<p class="app-description">{{ .Filename }}</p>
		</header>

		<h2>Summary Statistics</h2>
		<div class="metrics">
			<div class="metric"><div class="value">{{ .UpCount }}</div>Upregulated Genes</div>
			<div class="metric"><div class="value">{{ .DownCount }}</div>Downregulated Genes</div>
			<div class="metric"><div class="value">{{ .HubCount }}</div>Hub Genes</div>
		</div>

		<h2>Top Up &amp; Downregulated Genes</h2>
		<h3>Top 5 Upregulated Genes</h3>
		{{ template "degTable" .TopUp }}
		<h3>Top 5 Downregulated Genes</h3>
		{{ template "degTable" .TopDown }}

		<h2>Gene Regulation Summary</h2>
		{{ .RegulationChart }}

		<h2>Gene Annotations (from MyGene.info)</h2>
		{{ range .Annotations }}
			{{ if eq .Status "ok" }}
				<p><strong>{{ .Symbol }}</strong> - <em>{{ .Name }}</em><br>{{ .Summary }}</p>
			{{ else if eq .Status "no_match" }}
				<p class="placeholder"><strong>{{ .Symbol }}</strong> - No match found.</p>
			{{ else }}
				<p class="placeholder"><strong>{{ .Symbol }}</strong> - Request failed.</p>
			{{ end }}
		{{ else }}
			<p class="placeholder">No gene symbols to annotate.</p>
		{{ end }}

		<h2>Functional Enrichment (KEGG via Enrichr)</h2>
		{{ if .EnrichmentError }}
			<p class="error">Error fetching enrichment results: {{ .EnrichmentError }}</p>
		{{ else if .EnrichmentTerms }}
			<h3>Top Enriched KEGG Pathways</h3>
			<table>
				<tr><th>Term</th><th>P-value</th><th>-log10(P-value)</th><th>Genes</th></tr>
				{{ range .EnrichmentTerms }}
				<tr>
					<td>{{ .Term }}</td>
					<td>{{ printf "%.3g" .PValue }}</td>
					<td>{{ printf "%.2f" .NegLog10P }}</td>
					<td>{{ joinGenes .Genes }}</td>
				</tr>
				{{ end }}
			</table>
			{{ .EnrichmentChart }}
		{{ else }}
			<p class="placeholder">No enrichment results found.</p>
		{{ end }}

		<h2>Export</h2>
		<p><a href="/export/{{ .SessionID }}">Download DEG Table</a></p>
	</body>
	</html>

	{{ define "degTable" }}
	<table>
		<tr><th>Gene_Symbol</th><th>log2(FC)</th><th>Padj</th></tr>
		{{ range . }}
		<tr>
			<td>{{ .GeneSymbol }}</td>
			<td>{{ printf "%.4g" .Log2FC }}</td>
			<td>{{ printf "%.3g" .Padj }}</td>
		</tr>
		{{ else }}
		<tr><td colspan="3">None</td></tr>
		{{ end }}
	</table>
	{{ end }}`

	uploadPageTemplate = template.Must(template.New("upload_page").Parse(uploadTmpl))
	reportPageTemplate = template.Must(template.New("report_page").Funcs(funcs).Parse(reportTmpl))
}

// RenderUploadPage writes the landing page with the single file control.
func RenderUploadPage(w io.Writer, data UploadPageData) error {
	return uploadPageTemplate.Execute(w, data)
}

// RenderReportPage writes the full report in fixed section order.
func RenderReportPage(w io.Writer, data ReportPageData) error {
	logger.Debug("Rendering report page",
		zap.String("session_id", data.SessionID),
		zap.Int("up", data.UpCount),
		zap.Int("down", data.DownCount))
	return reportPageTemplate.Execute(w, data)
}
