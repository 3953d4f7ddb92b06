package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	spio "github.com/matzehuels/spaceforge/pkg/io"
	"github.com/matzehuels/spaceforge/pkg/store"
)

type layoutResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	ShapeCount int             `json:"shape_count"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Document   json.RawMessage `json:"document,omitempty"`
}

func newLayoutResponse(rec *store.Record, withDocument bool) (layoutResponse, error) {
	resp := layoutResponse{
		ID:         rec.ID,
		Name:       rec.Name,
		ShapeCount: rec.Layout.Len(),
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
	if withDocument {
		data, err := spio.MarshalJSON(spio.NewDocument(rec.Name, rec.Layout))
		if err != nil {
			return resp, err
		}
		resp.Document = data
	}
	return resp, nil
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	s.saveLayout(w, r, "", http.StatusCreated)
}

func (s *Server) handlePutLayout(w http.ResponseWriter, r *http.Request) {
	s.saveLayout(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (s *Server) saveLayout(w http.ResponseWriter, r *http.Request, id string, status int) {
	doc, err := readDocument(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec := &store.Record{ID: id, Name: doc.Name, Layout: doc.Layout}
	if err := s.store.Save(r.Context(), rec); err != nil {
		writeError(w, r, err)
		return
	}
	loggerFrom(r).Debug("saved layout", "id", rec.ID, "name", rec.Name, "shapes", rec.Layout.Len())

	resp, err := newLayoutResponse(rec, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if status == http.StatusCreated {
		w.Header().Set("Location", "/layouts/"+rec.ID)
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := newLayoutResponse(rec, true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnalyzeStored(w http.ResponseWriter, r *http.Request) {
	doc, err := s.loadDocument(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.analyze(w, r, doc)
}

func (s *Server) handleExportStored(w http.ResponseWriter, r *http.Request) {
	doc, err := s.loadDocument(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.export(w, r, doc)
}

func (s *Server) loadDocument(r *http.Request) (*spio.Document, error) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return spio.NewDocument(rec.Name, rec.Layout), nil
}
