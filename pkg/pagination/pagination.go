// Package pagination implements keyset pagination over (created_at, id),
// newest first, with opaque query-safe cursors.
package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 25
	MaxLimit     = 100

	cursorSep = "|"
)

type Params struct {
	Limit  int
	Cursor string
}

// Cursor is the last row of the previous page.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps limit into [1, MaxLimit], using DefaultLimit for
// non-positive values.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer asks the store for one extra row so a next page can be
// detected without a count query.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

func EncodeCursor(c Cursor) string {
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + cursorSep + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseCursor returns nil, nil for a blank value.
func ParseCursor(value string) (*Cursor, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	stamp, id, ok := strings.Cut(string(decoded), cursorSep)
	if !ok {
		return nil, errors.New("invalid cursor format")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &Cursor{CreatedAt: createdAt, ID: parsedID}, nil
}

// Trim cuts rows fetched with LimitWithBuffer down to the requested page and
// returns the cursor for the next one, or "" on the last page.
func Trim[T any](rows []T, limit int, cursorOf func(T) Cursor) ([]T, string) {
	limit = NormalizeLimit(limit)
	if len(rows) <= limit {
		return rows, ""
	}
	rows = rows[:limit]
	return rows, EncodeCursor(cursorOf(rows[limit-1]))
}
