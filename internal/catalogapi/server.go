package catalogapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/rocketcart/internal/domain"
)

type productResponse struct {
	ID    int64       `json:"id"`
	Title string      `json:"title"`
	Price json.Number `json:"price"`
	Image string      `json:"image"`
}

type stockResponse struct {
	ID     int64 `json:"id"`
	Amount int64 `json:"amount"`
}

// Server serves product metadata and stock levels from an in-memory catalog.
type Server struct {
	catalog Catalog
	byID    map[int64]domain.Product
	logger  *slog.Logger
}

func NewServer(catalog Catalog, logger *slog.Logger) *Server {
	byID := make(map[int64]domain.Product, len(catalog.Products))
	for _, p := range catalog.Products {
		byID[p.ID] = p
	}

	return &Server{
		catalog: catalog,
		byID:    byID,
		logger:  logger,
	}
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/products", s.handleListProducts)
	r.Get("/products/{id}", s.handleGetProduct)
	r.Get("/stock/{id}", s.handleGetStock)

	return r
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	resp := make([]productResponse, 0, len(s.catalog.Products))
	for _, p := range s.catalog.Products {
		resp = append(resp, mapProduct(p))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	p, found := s.byID[id]
	if !found {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}

	s.writeJSON(w, http.StatusOK, mapProduct(p))
}

func (s *Server) handleGetStock(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	amount, found := s.catalog.Stock[id]
	if !found {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "stock not found"})
		return
	}

	s.writeJSON(w, http.StatusOK, stockResponse{ID: id, Amount: amount})
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func mapProduct(p domain.Product) productResponse {
	return productResponse{
		ID:    p.ID,
		Title: p.Title,
		Price: json.Number(p.Price.String()),
		Image: p.Image,
	}
}
