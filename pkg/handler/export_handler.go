package handler

import (
	"errors"
	"net/http"

	"github.com/yumyai/knowdegs/logger"
	degdb "github.com/yumyai/knowdegs/pkg/db"
	"go.uber.org/zap"
)

// Fixed download name, whatever the upload was called.
const exportFilename = "degs_summary.csv"

// ExportHandler streams the full augmented table back out as CSV.
func (rctx *ReportContext) ExportHandler(w http.ResponseWriter, r *http.Request) {

	sessionID := r.PathValue("session_id")

	table, err := rctx.Store.LoadTable(r.Context(), sessionID)
	if errors.Is(err, degdb.ErrSessionNotFound) {
		http.Error(w, "Unknown report session", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error("Failed to load session table",
			zap.String("session_id", sessionID),
			zap.Error(err))
		http.Error(w, "Failed to load table", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)

	if err := table.WriteCSV(w); err != nil {
		// Headers are gone already, all that is left is logging it.
		logger.Error("Failed to write export",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}
