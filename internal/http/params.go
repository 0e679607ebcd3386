package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"brandintel-backend-go/internal/query"
	"brandintel-backend-go/internal/services"
)

// parsePage reads limit and offset. Missing values take the defaults,
// anything non-numeric or out of range is rejected.
func parsePage(r *http.Request) (query.Page, error) {
	values := r.URL.Query()
	limit, err := intParam(values.Get("limit"), "limit", query.DefaultLimit)
	if err != nil {
		return query.Page{}, err
	}
	offset, err := intParam(values.Get("offset"), "offset", 0)
	if err != nil {
		return query.Page{}, err
	}
	page, err := query.NewPage(limit, offset)
	if err != nil {
		field := "limit"
		if limit >= 1 && limit <= query.MaxLimit {
			field = "offset"
		}
		return query.Page{}, services.ErrValidation(strings.TrimPrefix(err.Error(), query.ErrInvalidPage.Error()+": "),
			[]services.FieldError{{Field: field, Message: "out of range"}})
	}
	return page, nil
}

func intParam(raw, field string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, services.ErrValidation(field+" must be an integer", []services.FieldError{{Field: field, Message: "must be an integer"}})
	}
	return value, nil
}

// listParam collects a multi-valued parameter given either repeated
// (?ids=a&ids=b) or comma separated (?ids=a,b).
func listParam(r *http.Request, name string) []string {
	var items []string
	for _, raw := range r.URL.Query()[name] {
		for _, part := range strings.Split(raw, ",") {
			if value := strings.TrimSpace(part); value != "" {
				items = append(items, value)
			}
		}
	}
	return items
}

func stringParam(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

func timeParam(r *http.Request, name string) (*time.Time, error) {
	raw := stringParam(r, name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return nil, services.ErrValidation(name+" must be an ISO-8601 timestamp", []services.FieldError{{Field: name, Message: err.Error()}})
	}
	return &parsed, nil
}
