package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/spaceforge/pkg/buildinfo"
	sferrors "github.com/matzehuels/spaceforge/pkg/errors"
	"github.com/matzehuels/spaceforge/pkg/geom"
	spio "github.com/matzehuels/spaceforge/pkg/io"
	"github.com/matzehuels/spaceforge/pkg/pipeline"
	"github.com/matzehuels/spaceforge/pkg/report"
)

type analysisResponse struct {
	Name       string       `json:"name,omitempty"`
	LayoutHash string       `json:"layout_hash"`
	Metrics    geom.Metrics `json:"metrics"`
	Cached     bool         `json:"cached"`
	DurationMS float64      `json:"duration_ms"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	doc, err := readDocument(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.analyze(w, r, doc)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc, err := readDocument(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.export(w, r, doc)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request, doc *spio.Document) {
	start := time.Now()
	hash, err := pipeline.LayoutHash(doc.Layout)
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, hit, err := s.runner.AnalyzeWithCacheInfo(r.Context(), doc.Layout, hash, pipeline.Options{
		Refresh: queryBool(r, "refresh"),
		Logger:  loggerFrom(r),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysisResponse{
		Name:       doc.Name,
		LayoutHash: hash,
		Metrics:    m,
		Cached:     hit,
		DurationMS: float64(time.Since(start).Microseconds()) / 1000,
	})
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, doc *spio.Document) {
	opts, err := exportOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	format := opts.Formats[0]

	res, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	name := doc.Name
	if name == "" {
		name = "layout"
	}
	f := report.Format(format)
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+f.Ext()))
	w.Header().Set("X-Layout-Hash", res.LayoutHash)
	w.Header().Set("X-Cache", cacheStatus(res.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// exportOptions reads format, title, page_size, precision and refresh
// query parameters. Format defaults to pdf.
func exportOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = string(report.FormatPDF)
	}
	opts := pipeline.Options{
		Formats:  []string{strings.ToLower(format)},
		Title:    q.Get("title"),
		PageSize: q.Get("page_size"),
		Refresh:  queryBool(r, "refresh"),
		Logger:   loggerFrom(r),
	}
	if p := q.Get("precision"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return opts, sferrors.New(sferrors.ErrCodeInvalidInput, "invalid precision: %q", p)
		}
		opts.Precision = pipeline.Precision(n)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

// readDocument decodes the request body as a native JSON or TOML document.
func readDocument(w http.ResponseWriter, r *http.Request) (*spio.Document, error) {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer body.Close()

	var (
		doc *spio.Document
		err error
	)
	if strings.Contains(r.Header.Get("Content-Type"), "toml") {
		doc, err = spio.ReadTOML(body)
	} else {
		doc, err = spio.ReadJSON(body)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
