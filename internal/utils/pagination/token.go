package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Cursor is the keyset position of the last row on a page. Rows are ordered
// by SortDate desc, CreatedAt desc, ID desc.
type Cursor struct {
	SortDate  time.Time
	CreatedAt time.Time
	ID        string
}

// EncodeToken creates a URL-safe token from a cursor.
func EncodeToken(c Cursor) string {
	tokenStr := fmt.Sprintf("%s|%s|%s", c.SortDate.UTC().Format(timeFormat), c.CreatedAt.UTC().Format(timeFormat), c.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	sortDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (sort date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	if parts[2] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (missing id)")
	}
	return Cursor{SortDate: sortDate, CreatedAt: createdAt, ID: parts[2]}, nil
}

// After reports whether a row at position c sorts strictly after the cursor
// in descending order, i.e. belongs on the next page.
func (cur Cursor) After(c Cursor) bool {
	if !c.SortDate.Equal(cur.SortDate) {
		return c.SortDate.Before(cur.SortDate)
	}
	if !c.CreatedAt.Equal(cur.CreatedAt) {
		return c.CreatedAt.Before(cur.CreatedAt)
	}
	return c.ID < cur.ID
}

// Less orders two cursors for a descending listing.
func Less(a, b Cursor) bool {
	return a.After(b)
}

// NormalizeLimit clamps a requested page size.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Trim cuts a limit+1 fetch down to limit rows and returns the next token
// when more rows exist.
func Trim[T any](rows []T, limit int, cursorOf func(T) Cursor) ([]T, *string) {
	if len(rows) <= limit {
		return rows, nil
	}
	page := rows[:limit]
	token := EncodeToken(cursorOf(page[len(page)-1]))
	return page, &token
}
