package handler

import (
	"errors"
	"net/http"

	"github.com/yumyai/knowdegs/logger"
	degdb "github.com/yumyai/knowdegs/pkg/db"
	"github.com/yumyai/knowdegs/pkg/handler/request"
	"github.com/yumyai/knowdegs/pkg/render"
	"go.uber.org/zap"
)

// ReportPage assembles the full report for one session. Everything is
// recomputed on every request, external lookups included; only the
// uploaded table itself is read back from the store.
//
// Section failures stay inside their section: a failed gene lookup
// renders a placeholder for that gene, a failed enrichment run renders
// one error line, and all earlier sections render regardless.
func (rctx *ReportContext) ReportPage(w http.ResponseWriter, r *http.Request) {

	req := request.NewReportRequest(
		r.PathValue("session_id"),
		r.URL.Query().Get("top_n"),
		r.URL.Query().Get("annotate_n"),
	)

	logger.Info("Running report page",
		zap.String("session_id", req.Session_ID),
		zap.Int("top_n", req.Top_N),
		zap.Int("annotate_n", req.Annotate_N),
	)

	table, err := rctx.Store.LoadTable(r.Context(), req.Session_ID)
	if errors.Is(err, degdb.ErrSessionNotFound) {
		http.Error(w, "Unknown report session", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error("Failed to load session table",
			zap.String("session_id", req.Session_ID),
			zap.Error(err))
		http.Error(w, "Failed to load table", http.StatusInternalServerError)
		return
	}

	data := render.ReportPageData{
		SessionID: req.Session_ID,
		Filename:  table.Filename,
		UpCount:   table.CountUp(),
		DownCount: table.CountDown(),
		HubCount:  table.CountHub(),
		TopUp:     table.TopUp(req.Top_N),
		TopDown:   table.TopDown(req.Top_N),
	}

	data.RegulationChart, err = render.RegulationChartSVG(data.UpCount, data.DownCount)
	if err != nil {
		logger.Error(err.Error())
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	// Sequential per-gene lookups; failures degrade per gene.
	data.Annotations = rctx.MyGene.Annotate(r.Context(), table.AnnotationTargets(req.Annotate_N))

	// One coarse boundary around both enrichment steps.
	terms, err := rctx.Enrichr.Enrich(r.Context(), table.GeneSymbols())
	if err != nil {
		logger.Warn("Enrichment failed",
			zap.String("session_id", req.Session_ID),
			zap.Error(err))
		data.EnrichmentError = err.Error()
	} else if len(terms) > 0 {
		data.EnrichmentTerms = terms
		data.EnrichmentChart, err = render.EnrichmentChartSVG(terms)
		if err != nil {
			logger.Error(err.Error())
			http.Error(w, "Failed to render chart", http.StatusInternalServerError)
			return
		}
	}

	if err := render.RenderReportPage(w, data); err != nil {
		logger.Error(err.Error())
		http.Error(w, "Failed to render report", http.StatusInternalServerError)
	}
}
