package render

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yumyai/knowdegs/logger"
	"github.com/yumyai/knowdegs/pkg/model"
)

func TestMain(m *testing.M) {
	logger.InitNop()
	os.Exit(m.Run())
}

func baseReportData(t *testing.T) ReportPageData {
	t.Helper()
	chart, err := RegulationChartSVG(2, 1)
	require.NoError(t, err)
	return ReportPageData{
		SessionID: "abc-123",
		Filename:  "degs.csv",
		UpCount:   2,
		DownCount: 1,
		HubCount:  1,
		TopUp: []*model.DEGRow{
			{GeneSymbol: "TP53", Log2FC: 2.3, Padj: 0.001, Regulation: "Up"},
		},
		TopDown: []*model.DEGRow{
			{GeneSymbol: "BRCA1", Log2FC: -1.5, Padj: 0.02, Regulation: "Down"},
		},
		RegulationChart: chart,
	}
}

func TestRenderReportPage(t *testing.T) {
	data := baseReportData(t)
	data.Annotations = []model.Annotation{
		{Symbol: "TP53", Name: "tumor protein p53", Summary: "Acts as a tumor suppressor.", Status: model.AnnotationOK},
		{Symbol: "XYZ1", Status: model.AnnotationNoMatch},
		{Symbol: "ABC9", Status: model.AnnotationFailed},
	}
	data.EnrichmentTerms = []model.EnrichmentTerm{
		{Term: "p53 signaling pathway", PValue: 0.0001, NegLog10P: 4.0, Genes: []string{"TP53", "MDM2"}},
	}
	chart, err := EnrichmentChartSVG(data.EnrichmentTerms)
	require.NoError(t, err)
	data.EnrichmentChart = chart

	var buf bytes.Buffer
	require.NoError(t, RenderReportPage(&buf, data))
	out := buf.String()

	require.Contains(t, out, "Summary Statistics")
	require.Contains(t, out, "Upregulated Genes")
	require.Contains(t, out, "TP53")
	require.Contains(t, out, "tumor protein p53")
	require.Contains(t, out, "XYZ1</strong> - No match found.")
	require.Contains(t, out, "ABC9</strong> - Request failed.")
	require.Contains(t, out, "Top Enriched KEGG Pathways")
	require.Contains(t, out, "TP53, MDM2")
	require.Contains(t, out, "/export/abc-123")

	// Sections keep their fixed order.
	require.Less(t, strings.Index(out, "Summary Statistics"), strings.Index(out, "Gene Annotations"))
	require.Less(t, strings.Index(out, "Gene Annotations"), strings.Index(out, "Functional Enrichment"))
}

func TestRenderReportPageEnrichmentError(t *testing.T) {
	data := baseReportData(t)
	data.EnrichmentError = "addList returned status 502"

	var buf bytes.Buffer
	require.NoError(t, RenderReportPage(&buf, data))
	out := buf.String()

	// The failing section shows one error; earlier sections still render.
	require.Contains(t, out, "Error fetching enrichment results: addList returned status 502")
	require.Contains(t, out, "Summary Statistics")
	require.NotContains(t, out, "Top Enriched KEGG Pathways")
}

func TestRenderReportPageNoEnrichmentResults(t *testing.T) {
	data := baseReportData(t)

	var buf bytes.Buffer
	require.NoError(t, RenderReportPage(&buf, data))

	// Empty result set is informational, not an error.
	require.Contains(t, buf.String(), "No enrichment results found.")
	require.NotContains(t, buf.String(), "Error fetching enrichment results")
}

func TestRenderUploadPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderUploadPage(&buf, UploadPageData{}))
	require.Contains(t, buf.String(), `name="deg_file"`)

	buf.Reset()
	require.NoError(t, RenderUploadPage(&buf, UploadPageData{ErrorMessage: "parse error: missing required column"}))
	require.Contains(t, buf.String(), "parse error: missing required column")
}
