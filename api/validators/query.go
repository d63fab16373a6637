package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseQueryEnum returns the lower-cased query value when it is in allowed.
func ParseQueryEnum(r *http.Request, key, defaultVal string, allowed ...string) (string, error) {
	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	if raw == "" {
		return defaultVal, nil
	}
	for _, candidate := range allowed {
		if raw == candidate {
			return raw, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported query parameter value").
		WithDetails(map[string]any{"field": key, "allowed": allowed})
}

// ParseUUIDParam reads a chi URL parameter as a uuid.
func ParseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name).
			WithDetails(map[string]any{"field": name})
	}
	return id, nil
}
