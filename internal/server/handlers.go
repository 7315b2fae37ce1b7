package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"docsearch/internal/domain"
)

type ingestRequest struct {
	Texts    []string       `json:"texts"`
	Metadata map[string]any `json:"metadata"`
}

type ingestResponse struct {
	OK            bool     `json:"ok"`
	InsertedCount int      `json:"inserted_count"`
	IDs           []string `json:"ids"`
}

type updateRequest struct {
	Text     *string        `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

type updateResponse struct {
	OK   bool   `json:"ok"`
	ID   string `json:"id"`
	Text string `json:"text"`
}

type deleteResponse struct {
	OK        bool   `json:"ok"`
	DeletedID string `json:"deleted_id"`
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type searchResponse struct {
	OK      bool         `json:"ok"`
	Type    string       `json:"type"`
	Results []domain.Hit `json:"results"`
}

type createIndexResponse struct {
	OK    bool   `json:"ok"`
	Index string `json:"index"`
	Dim   int    `json:"dim"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.docs.Health())
}

func (s *Server) handleCreateIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.docs.EnsureSchema(); err != nil {
		writeError(w, err)
		return
	}
	health := s.docs.Health()
	writeJSON(w, http.StatusOK, createIndexResponse{
		OK:    true,
		Index: health.IndexName,
		Dim:   health.EmbeddingDim,
	})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if len(req.Texts) == 0 {
		writeBadRequest(w, "texts must not be empty")
		return
	}

	ids, err := s.docs.Ingest(req.Texts, req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ingestResponse{
		OK:            true,
		InsertedCount: len(ids),
		IDs:           ids,
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	doc, err := s.docs.Update(id, req.Text, req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updateResponse{
		OK:   true,
		ID:   doc.ID,
		Text: doc.Text,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.docs.Delete(id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{
		OK:        true,
		DeletedID: id,
	})
}

func (s *Server) searchHandler(kind string, search func(query string, topK int) ([]domain.Hit, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}
		if req.Query == "" {
			writeBadRequest(w, "query must not be empty")
			return
		}
		if req.TopK == 0 {
			req.TopK = 5
		}
		if req.TopK < 0 {
			writeBadRequest(w, "top_k must be positive")
			return
		}

		hits, err := search(req.Query, req.TopK)
		if err != nil {
			writeError(w, err)
			return
		}
		if hits == nil {
			hits = []domain.Hit{}
		}

		writeJSON(w, http.StatusOK, searchResponse{
			OK:      true,
			Type:    kind,
			Results: hits,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
