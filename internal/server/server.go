package server

import (
	"log"
	"net/http"

	"docsearch/internal/usecase"
)

// Server exposes the document and search operations as a JSON HTTP API.
type Server struct {
	docs   *usecase.DocumentService
	search *usecase.SearchService
}

func New(docs *usecase.DocumentService, search *usecase.SearchService) *Server {
	return &Server{
		docs:   docs,
		search: search,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /index/create", s.handleCreateIndex)
	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("PUT /documents/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /documents/{id}", s.handleDelete)
	mux.HandleFunc("POST /search/lexical", s.searchHandler("lexical", s.search.Lexical))
	mux.HandleFunc("POST /search/semantic", s.searchHandler("semantic", s.search.Semantic))
	mux.HandleFunc("POST /search/hybrid", s.searchHandler("hybrid", s.search.Hybrid))

	return mux
}

// ListenAndServe runs the server on addr until it fails.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}
