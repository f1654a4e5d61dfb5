// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web is the HTTP shell around the engine: one search page, result
// downloads, a health probe, and Prometheus metrics.
package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pdiddy/reference-search/internal/engine"
	"github.com/pdiddy/reference-search/internal/export"
	"github.com/pdiddy/reference-search/internal/metrics"
	"github.com/pdiddy/reference-search/internal/sheets"
	"github.com/pdiddy/reference-search/internal/table"
	"github.com/pdiddy/reference-search/pkg/types"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Server renders engine outcomes over HTTP. Tables are loaded per request
// through sources, which are expected to be cached.
type Server struct {
	cfg     types.ServerConfig
	engine  *engine.Engine
	sources map[string]sheets.Source
	log     zerolog.Logger
}

// New returns a Server. sources is keyed by kind name.
func New(cfg types.ServerConfig, eng *engine.Engine, sources map[string]sheets.Source, log zerolog.Logger) *Server {
	return &Server{cfg: cfg, engine: eng, sources: sources, log: log}
}

// Handler returns the chi router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	r.Get("/", s.handleIndex)
	r.Get("/export/{file}", s.handleExport)
	r.Get("/healthz", handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

type page struct {
	Title    string
	Header   string
	Intro    string
	K1, K2   string
	Outcome  engine.Outcome
	Sections []sectionView
}

type sectionView struct {
	engine.Section
	CSVURL  string
	XLSXURL string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	k1, k2 := q.Get("k1"), q.Get("k2")

	var out engine.Outcome
	if q.Has("search") {
		keywords := table.NormalizeKeywords([]string{k1, k2})
		if len(keywords) == 0 {
			out = s.engine.Search(engine.Snapshot{}, keywords)
		} else {
			out = s.engine.Search(s.load(r), keywords)
		}
	} else {
		out = s.engine.Sample(s.load(r))
	}

	p := page{
		Title:   s.cfg.Title,
		Header:  s.cfg.Header,
		Intro:   s.cfg.Intro,
		K1:      k1,
		K2:      k2,
		Outcome: out,
	}
	exportQuery := url.Values{"k1": {k1}, "k2": {k2}}.Encode()
	for _, sec := range out.Sections {
		v := sectionView{Section: sec}
		if sec.Status == engine.StatusSuccess {
			v.CSVURL = fmt.Sprintf("/export/%s.%s?%s", sec.Kind.Name, export.CSV, exportQuery)
			v.XLSXURL = fmt.Sprintf("/export/%s.%s?%s", sec.Kind.Name, export.XLSX, exportQuery)
		}
		p.Sections = append(p.Sections, v)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		s.log.Error().Err(err).Msg("rendering page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// load fetches every source for one request and logs failures. Failed
// kinds render as error sections.
func (s *Server) load(r *http.Request) engine.Snapshot {
	snap := s.engine.Load(r.Context(), s.sources)
	for kind, err := range snap.Errors {
		s.log.Error().Err(err).Str("kind", kind).Msg("loading source")
	}
	return snap
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	name, ext, _ := strings.Cut(chi.URLParam(r, "file"), ".")
	k, ok := s.engine.Kind(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown table %q", name))
		return
	}
	format, err := export.ParseFormat(ext)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	q := r.URL.Query()
	keywords := table.NormalizeKeywords([]string{q.Get("k1"), q.Get("k2")})
	if len(keywords) == 0 {
		writeError(w, http.StatusBadRequest, engine.MsgEmptyQuery)
		return
	}

	src, ok := s.sources[k.Name]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no source configured for %s", k.Name))
		return
	}
	t, err := src.Load(r.Context())
	if err != nil {
		s.log.Error().Err(err).Str("kind", k.Name).Msg("loading source for export")
		writeError(w, http.StatusBadGateway, fmt.Sprintf("could not load %s", k.Noun))
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, k.Title, s.engine.Filter(k, t, keywords)); err != nil {
		s.log.Error().Err(err).Str("kind", k.Name).Str("format", string(format)).Msg("writing export")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	metrics.Exports.WithLabelValues(k.Name, string(format)).Inc()

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", k.ExportName+"."+string(format)))
	_, _ = buf.WriteTo(w)
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
