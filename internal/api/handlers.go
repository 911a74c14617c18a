package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"kwintel/internal/analysis"
	"kwintel/internal/config"
	"kwintel/internal/models"
	"kwintel/internal/service"
	"kwintel/internal/state"
	"kwintel/internal/table"
)

const maxUploadSize = 100 * 1024 * 1024 // 100MB

// Handler serves the pipeline to the dashboard: dataset ingestion (upload
// or database), analysis runs, segment tables and the rendered report.
type Handler struct {
	Pipeline  *analysis.Pipeline
	State     *state.AppState
	Config    *config.Config
	Log       *zap.Logger
	CurrentDB service.DataSource // active DB connection, nil until connect
}

// NewHandler wires the handler.
func NewHandler(pipeline *analysis.Pipeline, st *state.AppState, cfg *config.Config, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Pipeline: pipeline,
		State:    st,
		Config:   cfg,
		Log:      log,
	}
}

// RegisterRoutes mounts all routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)

	r.Post("/upload", h.Upload)
	r.Post("/api/analyze", h.Analyze)
	r.Get("/api/segments/{segment}", h.GetSegment)
	r.Get("/api/report", h.GetReport)
	r.Get("/api/status", h.GetStatus)

	// DB ingestion path
	r.Post("/api/db/connect", h.ConnectDB)
	r.Get("/api/db/tables", h.ListTables)
	r.Post("/api/db/load", h.LoadDBTable)
}

// ============================================================================
// Health
// ============================================================================

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// ============================================================================
// Ingestion
// ============================================================================

// Upload receives one CSV dataset. fileIndex=1 is the organic side,
// fileIndex=2 the paid side.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	fileIndex, err := parseFileIndex(r.URL.Query().Get("fileIndex"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var (
		t        *table.Table
		warnings []string
	)
	if fileIndex == state.OrganicIndex {
		t, warnings, err = analysis.LoadOrganicCSVFrom(file, header.Filename)
	} else {
		t, warnings, err = analysis.LoadPaidCSVFrom(file, header.Filename)
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to parse CSV: %v", err), http.StatusBadRequest)
		return
	}

	h.State.SetDataset(fileIndex, &state.Dataset{Table: t, Filename: header.Filename, Warnings: warnings})
	h.Log.Info("dataset uploaded",
		zap.Int("fileIndex", fileIndex),
		zap.String("filename", header.Filename),
		zap.Int("rows", t.Len()),
	)

	writeJSON(w, http.StatusOK, models.UploadResponse{
		Message:     "uploaded",
		Rows:        t.Len(),
		Columns:     len(t.Headers),
		ColumnNames: t.Headers,
		Warnings:    warnings,
	})
}

// ============================================================================
// Analysis
// ============================================================================

// Analyze runs the pipeline over the two loaded datasets. Query params
// fuzzy (bool) and threshold (int) override the configured defaults.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	organic := h.State.GetDataset(state.OrganicIndex)
	paid := h.State.GetDataset(state.PaidIndex)
	if organic == nil || paid == nil {
		http.Error(w, "both datasets must be loaded before analyzing", http.StatusConflict)
		return
	}

	opts := analysis.Options{
		Fuzzy:     h.Config.FuzzyEnabled,
		Threshold: h.Config.FuzzyThreshold,
	}
	if v := r.URL.Query().Get("fuzzy"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "fuzzy must be a boolean", http.StatusBadRequest)
			return
		}
		opts.Fuzzy = b
	}
	if v := r.URL.Query().Get("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "threshold must be an integer", http.StatusBadRequest)
			return
		}
		opts.Threshold = n
	}

	result := h.Pipeline.Run(organic.Table, paid.Table, opts)
	result.Warnings = append(append([]string(nil), organic.Warnings...), paid.Warnings...)
	h.State.SetResult(result)

	writeJSON(w, http.StatusOK, models.AnalyzeResponse{
		Message:     "analysis complete",
		Fuzzy:       opts.Fuzzy,
		Threshold:   opts.Threshold,
		OverlapRows: result.Segments.Overlap.Len(),
		OrganicRows: result.Segments.OrganicOnly.Len(),
		PaidRows:    result.Segments.PaidOnly.Len(),
		Warnings:    result.Warnings,
	})
}

// GetSegment returns one segment of the last run as an ordered JSON table.
func (h *Handler) GetSegment(w http.ResponseWriter, r *http.Request) {
	result := h.State.GetResult()
	if result == nil {
		http.Error(w, "no analysis has been run", http.StatusNotFound)
		return
	}

	var t *table.Table
	name := chi.URLParam(r, "segment")
	switch name {
	case "overlap":
		t = result.Segments.Overlap
	case "organic-only":
		t = result.Segments.OrganicOnly
	case "paid-only":
		t = result.Segments.PaidOnly
	default:
		http.Error(w, "unknown segment: "+name, http.StatusNotFound)
		return
	}

	rows := make([]map[string]string, 0, t.Len())
	for _, row := range t.Rows {
		out := make(map[string]string, len(t.Headers))
		for _, c := range t.Headers {
			out[c] = row[c].Str()
		}
		rows = append(rows, out)
	}
	writeJSON(w, http.StatusOK, models.TableResponse{
		Segment: name,
		Columns: t.Headers,
		Rows:    rows,
	})
}

// GetReport returns the rendered markdown report of the last run.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	result := h.State.GetResult()
	if result == nil {
		http.Error(w, "no analysis has been run", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(result.Report))
}

// GetStatus reports which datasets are loaded and whether a result exists.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := models.StatusResponse{
		Organic:   fileStatus(h.State.GetDataset(state.OrganicIndex)),
		Paid:      fileStatus(h.State.GetDataset(state.PaidIndex)),
		HasResult: h.State.GetResult() != nil,
	}
	resp.OrganicLoaded = resp.Organic.Loaded
	resp.PaidLoaded = resp.Paid.Loaded
	writeJSON(w, http.StatusOK, resp)
}

// ============================================================================
// Database ingestion
// ============================================================================

// ConnectDB establishes a database connection for table ingestion.
func (h *Handler) ConnectDB(w http.ResponseWriter, r *http.Request) {
	var cfg service.DataSourceConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if cfg.Type != "postgres" {
		http.Error(w, "only postgres is supported currently", http.StatusBadRequest)
		return
	}

	ds := &service.PostgresDataSource{}
	if err := ds.Connect(cfg); err != nil {
		http.Error(w, fmt.Sprintf("failed to connect: %v", err), http.StatusInternalServerError)
		return
	}
	if h.CurrentDB != nil {
		h.CurrentDB.Close()
	}
	h.CurrentDB = ds

	writeJSON(w, http.StatusOK, map[string]string{"message": "connected"})
}

// ListTables lists the tables available on the active connection.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	if h.CurrentDB == nil {
		http.Error(w, "no active database connection", http.StatusConflict)
		return
	}
	tables, err := h.CurrentDB.ListTables()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"tables": tables})
}

// LoadDBTable ingests one database table as the organic or paid dataset.
func (h *Handler) LoadDBTable(w http.ResponseWriter, r *http.Request) {
	if h.CurrentDB == nil {
		http.Error(w, "no active database connection", http.StatusConflict)
		return
	}
	fileIndex, err := parseFileIndex(r.URL.Query().Get("fileIndex"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tableName := r.URL.Query().Get("table")
	if tableName == "" {
		http.Error(w, "table query param is required", http.StatusBadRequest)
		return
	}
	limit := 100000
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	t, err := h.CurrentDB.LoadTable(tableName, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var warnings []string
	if fileIndex == state.OrganicIndex {
		t, warnings = analysis.PrepareOrganic(t, tableName)
	} else {
		t, warnings = analysis.PreparePaid(t, tableName)
	}
	h.State.SetDataset(fileIndex, &state.Dataset{Table: t, Filename: tableName, Warnings: warnings})

	writeJSON(w, http.StatusOK, models.UploadResponse{
		Message:     "loaded from database",
		Rows:        t.Len(),
		Columns:     len(t.Headers),
		ColumnNames: t.Headers,
		Warnings:    warnings,
	})
}

// ============================================================================
// Helpers
// ============================================================================

func parseFileIndex(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || (n != state.OrganicIndex && n != state.PaidIndex) {
		return 0, fmt.Errorf("fileIndex must be %d (organic) or %d (paid)", state.OrganicIndex, state.PaidIndex)
	}
	return n, nil
}

func fileStatus(ds *state.Dataset) models.FileStatus {
	if ds == nil {
		return models.FileStatus{}
	}
	return models.FileStatus{
		Loaded:   true,
		Rows:     ds.Table.Len(),
		Columns:  len(ds.Table.Headers),
		Filename: ds.Filename,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
