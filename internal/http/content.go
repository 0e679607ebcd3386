package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"brandintel-backend-go/internal/models"
	"brandintel-backend-go/internal/services"
)

// BrandContentResponse is a list page that also names the owning brand.
type BrandContentResponse struct {
	BrandID string           `json:"brand_id"`
	Data    []models.Content `json:"data"`
	Meta    Meta             `json:"meta"`
}

type ContentMediaResponse struct {
	ContentID string                `json:"content_id"`
	Media     []models.ContentMedia `json:"media"`
	Count     int                   `json:"count"`
}

type ContentMetricsResponse struct {
	ContentID string                  `json:"content_id"`
	Metrics   []models.ContentMetrics `json:"metrics"`
	Count     int                     `json:"count"`
}

func (s *Server) CreateContent(w http.ResponseWriter, r *http.Request) {
	var req ContentCreateRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	record, err := services.CreateContent(r.Context(), s.DB, s.Fanout, req.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, record)
}

func (s *Server) GetContent(w http.ResponseWriter, r *http.Request) {
	content, err := services.GetContent(r.Context(), s.DB, chi.URLParam(r, "contentId"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, content)
}

func (s *Server) BrandContent(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	brandID := chi.URLParam(r, "brandId")
	filter := services.ContentFilter{
		Platform:    stringParam(r, "platform"),
		ContentType: stringParam(r, "content_type"),
	}
	result, err := services.ListBrandContent(r.Context(), s.DB, brandID, filter, page)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	list := newListResponse(result, page)
	WriteJSON(w, http.StatusOK, BrandContentResponse{BrandID: brandID, Data: list.Data, Meta: list.Meta})
}

func (s *Server) ContentMedia(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "contentId")
	media, err := services.ContentMediaFor(r.Context(), s.DB, contentID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, ContentMediaResponse{ContentID: contentID, Media: media, Count: len(media)})
}

func (s *Server) CreateMetrics(w http.ResponseWriter, r *http.Request) {
	var req MetricsCreateRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	sample, err := services.RecordMetrics(r.Context(), s.DB, chi.URLParam(r, "contentId"), req.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, sample)
}

func (s *Server) ContentMetrics(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "contentId")
	samples, err := services.MetricsFor(r.Context(), s.DB, contentID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, ContentMetricsResponse{ContentID: contentID, Metrics: samples, Count: len(samples)})
}
