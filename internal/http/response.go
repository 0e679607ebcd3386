package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"brandintel-backend-go/internal/query"
	"brandintel-backend-go/internal/services"
)

type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Meta describes the window a list page was cut from. Total counts every
// row matching the request's filters.
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type ListResponse[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

func newListResponse[T any](result query.Result[T], page query.Page) ListResponse[T] {
	return ListResponse[T]{
		Data: result.Items,
		Meta: Meta{Total: result.Total, Limit: page.Limit, Offset: page.Offset},
	}
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	WriteJSON(w, status, ErrorResponse{Code: code, Message: message, Details: details})
}

func writeValidation(w http.ResponseWriter, message string, details interface{}) {
	WriteError(w, http.StatusBadRequest, services.CodeValidation, message, details)
}

// writeServiceError renders err with its mapped status. The underlying store
// error is logged and never sent to the client.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	serr := services.AsServiceError(err)
	if serr.Err != nil {
		entry := requestLog(s.Logger, r).WithError(serr.Err).WithField("code", serr.Code)
		if serr.Status >= http.StatusInternalServerError {
			entry.Error(serr.Message)
		} else {
			entry.Debug(serr.Message)
		}
	}
	WriteJSON(w, serr.Status, ErrorResponse{
		Code:    serr.Code,
		Message: serr.Message,
		Details: serr.Details,
		Data:    serr.Data,
	})
}

func requestLog(logger logrus.FieldLogger, r *http.Request) logrus.FieldLogger {
	return logger.WithFields(logrus.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"request_id": requestID(r),
	})
}
