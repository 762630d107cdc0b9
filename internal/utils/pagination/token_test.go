package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	cursor := Cursor{
		SortDate:  time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:        "3f1c9a",
	}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token)
	assert.NotContains(t, token, "=", "token should be safe in a query string")

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, cursor.SortDate.Equal(decoded.SortDate))
	assert.True(t, cursor.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, cursor.ID, decoded.ID)
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	noSeparator := base64.RawURLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z"))
	_, err = DecodeToken(noSeparator)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.RawURLEncoding.EncodeToString([]byte("notadate|2023-05-15T14:30:45Z|x"))
	_, err = DecodeToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sort date parse")

	missingID := base64.RawURLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|2023-05-15T14:30:45Z|"))
	_, err = DecodeToken(missingID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestCursorAfter(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	created := day.Add(time.Hour)
	cur := Cursor{SortDate: day, CreatedAt: created, ID: "m"}

	assert.True(t, cur.After(Cursor{SortDate: day.AddDate(0, 0, -1), CreatedAt: created, ID: "z"}))
	assert.False(t, cur.After(Cursor{SortDate: day.AddDate(0, 0, 1), CreatedAt: created, ID: "a"}))
	assert.True(t, cur.After(Cursor{SortDate: day, CreatedAt: created.Add(-time.Second), ID: "z"}))
	assert.True(t, cur.After(Cursor{SortDate: day, CreatedAt: created, ID: "a"}))
	assert.False(t, cur.After(cur))
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-4))
	assert.Equal(t, 7, NormalizeLimit(7))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
}

func TestTrim(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	rows := []string{"c", "b", "a"}
	cursorOf := func(s string) Cursor { return Cursor{SortDate: day, CreatedAt: day, ID: s} }

	page, next := Trim(rows, 2, cursorOf)
	assert.Equal(t, []string{"c", "b"}, page)
	require.NotNil(t, next)
	decoded, err := DecodeToken(*next)
	require.NoError(t, err)
	assert.Equal(t, "b", decoded.ID)

	page, next = Trim(rows, 3, cursorOf)
	assert.Len(t, page, 3)
	assert.Nil(t, next)
}
