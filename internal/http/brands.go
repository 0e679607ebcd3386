package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"brandintel-backend-go/internal/models"
	"brandintel-backend-go/internal/services"
)

type BrandSignalsResponse struct {
	BrandID string          `json:"brand_id"`
	Signals []models.Signal `json:"signals"`
	Count   int             `json:"count"`
}

type BrandSnapshotResponse struct {
	BrandID  string                 `json:"brand_id"`
	Snapshot models.WebsiteSnapshot `json:"snapshot"`
}

func (s *Server) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req BrandCreateRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	brand, err := services.CreateBrand(r.Context(), s.DB, req.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, brand)
}

// ListBrands serves GET /v1/brands. Every filter parameter is optional and
// all present ones must match.
func (s *Server) ListBrands(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	filter := services.BrandFilter{
		Search:    stringParam(r, "search"),
		Industry:  stringParam(r, "industry"),
		Market:    stringParam(r, "market"),
		Tier:      stringParam(r, "tier"),
		Aesthetic: stringParam(r, "aesthetic"),
	}
	if ids := listParam(r, "ids"); len(ids) > 0 {
		filter.IDs, err = services.NormalizeIDs("ids", ids)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
	}
	result, err := services.ListBrands(r.Context(), s.DB, filter, page)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, newListResponse(result, page))
}

func (s *Server) GetBrand(w http.ResponseWriter, r *http.Request) {
	includes := services.ParseIncludes(r.URL.Query().Get("include"))
	detail, err := services.GetBrand(r.Context(), s.DB, chi.URLParam(r, "brandId"), includes)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, detail)
}

func (s *Server) BrandSignals(w http.ResponseWriter, r *http.Request) {
	brandID := chi.URLParam(r, "brandId")
	signals, err := services.BrandSignals(r.Context(), s.DB, brandID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, BrandSignalsResponse{BrandID: brandID, Signals: signals, Count: len(signals)})
}

func (s *Server) LatestSnapshot(w http.ResponseWriter, r *http.Request) {
	brandID := chi.URLParam(r, "brandId")
	snapshot, err := services.LatestSnapshot(r.Context(), s.DB, brandID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, BrandSnapshotResponse{BrandID: brandID, Snapshot: snapshot})
}

func (s *Server) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var req SnapshotCreateRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	snapshot, err := services.CreateSnapshot(r.Context(), s.DB, req.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, snapshot)
}
