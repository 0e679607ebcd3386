package httpapi

import (
	"net/http"

	"brandintel-backend-go/internal/services"
)

func (s *Server) CreateSignal(w http.ResponseWriter, r *http.Request) {
	var req SignalCreateRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	signal, err := services.CreateSignal(r.Context(), s.DB, s.Fanout, req.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, signal)
}

func (s *Server) ListSignals(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	since, err := timeParam(r, "since")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	filter := services.SignalFilter{
		SignalType: stringParam(r, "signal_type"),
		BrandID:    stringParam(r, "brand_id"),
		Since:      since,
	}
	result, err := services.ListSignals(r.Context(), s.DB, filter, page)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, newListResponse(result, page))
}
