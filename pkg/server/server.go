// Package server exposes the extraction pipeline over HTTP: upload a
// statement, get the rows back as JSON and download them as CSV or XLSX.
package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/extratofx/extratofx/pkg/config"
	"github.com/extratofx/extratofx/pkg/export"
	"github.com/extratofx/extratofx/pkg/extractor"
	"github.com/extratofx/extratofx/pkg/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Row is the JSON shape of one extracted transaction.
type Row struct {
	Date         string `json:"date"`
	Description  string `json:"description"`
	Document     string `json:"document"`
	Flag         string `json:"flag"`
	Amount       string `json:"amount"`
	Counterparty string `json:"counterparty"`
	Bank         string `json:"bank"`
}

// Server handles statement uploads and result downloads.
type Server struct {
	config    *config.Config
	logger    *log.Logger
	mux       *http.ServeMux
	template  *template.Template
	extractor *extractor.Extractor
	results   sync.Map
}

// New creates the HTTP server and registers its routes.
func New(cfg *config.Config, ex *extractor.Extractor, logger *log.Logger) *Server {
	tmpl := template.Must(template.ParseFS(templatesFS, "templates/*.html"))
	s := &Server{
		config:    cfg,
		logger:    logger,
		mux:       http.NewServeMux(),
		template:  tmpl,
		extractor: ex,
	}
	s.setupRoutes()
	return s
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/", s.withLogging(s.handleHome))
	s.mux.HandleFunc("/api/process", s.withLogging(s.handleProcess))
	s.mux.HandleFunc("/api/files/", s.withLogging(s.handleFiles))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if err := s.template.ExecuteTemplate(w, "index.html", nil); err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to render page", err)
	}
}

// handleProcess runs one uploaded statement through the pipeline, caches the
// rows for download and answers with them as JSON.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	file, header, err := r.FormFile("statement")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "statement file required", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to read file", err)
		return
	}

	rows, err := s.extractor.Extract(data)
	if err != nil {
		if errors.Is(err, extractor.ErrNoTransactions) {
			s.respondError(w, r, http.StatusUnprocessableEntity, "no transactions found in statement", err)
			return
		}
		s.respondError(w, r, http.StatusUnprocessableEntity, "statement could not be processed", err)
		return
	}

	// Cache under a unique name so concurrent uploads of equally named
	// files do not clobber each other.
	name := filepath.Base(header.Filename)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	filename := fmt.Sprintf("%s-%s-extratofx.csv", stem, uuid.NewString()[:8])
	s.results.Store(filename, rows)

	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = Row{
			Date:         row.Date,
			Description:  row.Description,
			Document:     row.DocumentNumber,
			Flag:         row.DebitCreditFlag,
			Amount:       row.Amount,
			Counterparty: row.CounterpartyName,
			Bank:         row.BankName,
		}
	}

	s.logger.Info("statement processed", "file", header.Filename, "rows", len(out))

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"file":   filename,
		"count":  len(out),
		"rows":   out,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// handleFiles serves a previously processed statement as a download.
// ?format=xlsx switches from CSV to a workbook.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	filename := strings.TrimPrefix(r.URL.Path, "/api/files/")
	if filename == "" {
		s.respondError(w, r, http.StatusBadRequest, "filename required", nil)
		return
	}

	value, ok := s.results.Load(filename)
	if !ok {
		s.respondError(w, r, http.StatusNotFound, "file not found", nil)
		return
	}
	rows, ok := value.([]models.TransactionRow)
	if !ok {
		s.respondError(w, r, http.StatusInternalServerError, "internal type assertion error", nil)
		return
	}

	var data []byte
	var err error
	contentType := "text/csv"
	if r.URL.Query().Get("format") == "xlsx" {
		data, err = export.XLSX(rows, nil)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = strings.TrimSuffix(filename, ".csv") + ".xlsx"
	} else {
		data, err = export.CSV(rows, nil)
	}
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to render export", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write export response", "err", err)
	}
}

// --- helpers ---

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging wraps a handler to log request start/end and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
