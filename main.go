package main

import (
	"database/sql"
	"net/http"
	"os"
	"path"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yumyai/knowdegs/internal/util"
	"github.com/yumyai/knowdegs/logger"
	"github.com/yumyai/knowdegs/pkg/client"
	degdb "github.com/yumyai/knowdegs/pkg/db"
	"github.com/yumyai/knowdegs/pkg/handler"
	"github.com/yumyai/knowdegs/pkg/middle"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "modernc.org/sqlite"
)

func main() {

	// Establish logger
	VERSION := "0.1.0"
	LOG_LEVEL := zapcore.InfoLevel

	if err := logger.InitLogger(LOG_LEVEL); err != nil {
		panic(err)
	}

	// Try load env
	dotenvErr := godotenv.Load()

	if dotenvErr != nil {
		logger.Warn("No .env found, using local environment")
	}

	defer logger.Sync() // Make sure that the buffered is flushed.

	knowdegsData := os.Getenv("KNOWDEGS_DATA")

	if knowdegsData == "" {
		logger.Warn("No local environment (KNOWDEGS_DATA), using default value (./data)")
		knowdegsData = "./data"
	}

	if err := util.EnsureDir(path.Join(knowdegsData, "db")); err != nil {
		logger.Fatal("Cannot create data directory", zap.Error(err))
	}

	sessionSqlite := path.Join(knowdegsData, "db/deg_sessions.db")

	// Connect to db
	db, err := sql.Open("sqlite", sessionSqlite)
	if err != nil {
		logger.Fatal("Cannot open session database", zap.Error(err))
	}

	store, err := degdb.NewSessionStore(db)
	if err != nil {
		logger.Fatal("Cannot prepare session database", zap.Error(err))
	}

	// External service bases; overridable for tests and mirrors.
	rctx := &handler.ReportContext{
		Store:   store,
		MyGene:  client.NewMyGeneClient(os.Getenv("KNOWDEGS_MYGENE_URL")),
		Enrichr: client.NewEnrichrClient(os.Getenv("KNOWDEGS_ENRICHR_URL")),
	}

	handler.Version = VERSION

	logger.Info("Start:", zap.String("Version", VERSION))
	logger.Info("Open session database on", zap.String("DB_LOC", sessionSqlite))

	metrics := middle.NewMetrics(prometheus.DefaultRegisterer)
	mux := NewRouter(rctx)

	// Apply middleware
	var root http.Handler = mux
	root = middle.MetricsMiddleware(metrics)(root)
	root = middle.RequestIDMiddleware()(root)
	root = middle.LoggingMiddleware(middle.CreateMiddlewareLogger(zapcore.DebugLevel))(root)

	logger.Info("Server starting on :8080...")
	httpErr := http.ListenAndServe("0.0.0.0:8080", root)
	if httpErr != nil {
		logger.Error("Error starting server:", zap.String("error message", httpErr.Error()))
	}
}

// Move to router.go in the next iteration
func NewRouter(rctx *handler.ReportContext) *http.ServeMux {
	mux := http.NewServeMux()

	// Error route
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	// Main routes
	mux.HandleFunc("GET /{$}", rctx.UploadPage)
	mux.HandleFunc("POST /upload", rctx.UploadHandler)
	mux.HandleFunc("GET /report/{session_id}", rctx.ReportPage)
	mux.HandleFunc("GET /export/{session_id}", rctx.ExportHandler)

	// API routes
	mux.HandleFunc("GET /api/v1/health", handler.HealthCheck)

	// Metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
