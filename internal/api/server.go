// Package api exposes the comparison and validation engine to the
// presentation layer over HTTP JSON.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/walkshed-data/netdiff/internal/config"
	"github.com/walkshed-data/netdiff/internal/db"
	"github.com/walkshed-data/netdiff/internal/diff"
	"github.com/walkshed-data/netdiff/internal/store"
	"github.com/walkshed-data/netdiff/internal/version"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server wires the engine, the data store, and persisted view state
// behind HTTP handlers.
type Server struct {
	store   *store.FileStore
	session *diff.Session
	db      *db.DB
	cfg     *config.Tuning
}

// NewServer creates a server. db may be nil; view-state endpoints then
// report 503.
func NewServer(fs *store.FileStore, session *diff.Session, database *db.DB, cfg *config.Tuning) *Server {
	if cfg == nil {
		cfg = config.EmptyTuning()
	}
	return &Server{store: fs, session: session, db: database, cfg: cfg}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	r.HandleFunc("/api/version", s.handleVersion).Methods(http.MethodGet)
	r.HandleFunc("/api/manifest", s.handleManifest).Methods(http.MethodGet)
	r.HandleFunc("/api/reference/manifest", s.handleReferenceManifest).Methods(http.MethodGet)
	r.HandleFunc("/api/compare/{before:[0-9]+}/{after:[0-9]+}", s.handleCompare).Methods(http.MethodGet)
	r.HandleFunc("/api/year/{year:[0-9]+}", s.handleYear).Methods(http.MethodGet)
	r.HandleFunc("/api/summary/{before:[0-9]+}/{after:[0-9]+}", s.handleSummary).Methods(http.MethodGet)
	r.HandleFunc("/api/tolerance", s.handleGetTolerance).Methods(http.MethodGet)
	r.HandleFunc("/api/tolerance", s.handleSetTolerance).Methods(http.MethodPut)
	r.HandleFunc("/api/validate/{detected:[0-9]+}/{reference:[0-9]+}", s.handleValidate).Methods(http.MethodGet)
	r.HandleFunc("/api/pairings", s.handlePairings).Methods(http.MethodGet)
	r.HandleFunc("/api/viewstate", s.handleGetViewState).Methods(http.MethodGet)
	r.HandleFunc("/api/viewstate", s.handlePutViewState).Methods(http.MethodPut)
	return r
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":    version.Version,
		"git_sha":    version.GitSHA,
		"build_time": version.BuildTime,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func yearVar(r *http.Request, name string) int {
	// The route pattern guarantees digits.
	v, _ := strconv.Atoi(mux.Vars(r)[name])
	return v
}
