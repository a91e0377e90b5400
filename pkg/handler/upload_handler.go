package handler

import (
	"net/http"

	"github.com/yumyai/knowdegs/logger"
	"github.com/yumyai/knowdegs/pkg/model"
	"github.com/yumyai/knowdegs/pkg/render"
	"go.uber.org/zap"
)

// Keep uploads bounded; DEG tables are small text files.
const maxUploadBytes = 32 << 20

// UploadPage serves the landing page with the single file control.
func (rctx *ReportContext) UploadPage(w http.ResponseWriter, r *http.Request) {
	if err := render.RenderUploadPage(w, render.UploadPageData{}); err != nil {
		logger.Error(err.Error())
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// UploadHandler parses the posted CSV, stores it as a new session and
// redirects to the report. A ParseError rejects the upload outright and
// nothing is stored.
func (rctx *ReportContext) UploadHandler(w http.ResponseWriter, r *http.Request) {

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("deg_file")
	if err != nil {
		http.Error(w, "Missing deg_file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	table, err := model.ParseDEGTable(header.Filename, file)
	if err != nil {
		logger.Warn("Rejected upload",
			zap.String("filename", header.Filename),
			zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		if rerr := render.RenderUploadPage(w, render.UploadPageData{ErrorMessage: err.Error()}); rerr != nil {
			logger.Error(rerr.Error())
		}
		return
	}

	sessionID, err := rctx.Store.SaveTable(r.Context(), table)
	if err != nil {
		logger.Error("Failed to store uploaded table",
			zap.String("filename", header.Filename),
			zap.Error(err))
		http.Error(w, "Failed to store table", http.StatusInternalServerError)
		return
	}

	logger.Info("Stored upload",
		zap.String("session_id", sessionID),
		zap.String("filename", header.Filename),
		zap.Int("rows", len(table.Rows)))

	http.Redirect(w, r, "/report/"+sessionID, http.StatusSeeOther)
}
