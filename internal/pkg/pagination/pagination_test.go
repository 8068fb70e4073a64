package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func queryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		name      string
		rawQuery  string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 10},
		{"explicit", "page=3&limit=25", 3, 25},
		{"negative page clamps", "page=-1&limit=5", 1, 5},
		{"zero limit clamps", "page=2&limit=0", 2, 10},
		{"limit capped", "limit=5000", 1, 100},
		{"non-numeric falls back", "page=abc&limit=xyz", 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := FromContext(queryContext(t, tt.rawQuery))
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantLimit, q.Limit)
		})
	}
}

func TestSkip(t *testing.T) {
	assert.EqualValues(t, 0, Query{Page: 1, Limit: 10}.Skip())
	assert.EqualValues(t, 40, Query{Page: 5, Limit: 10}.Skip())
}

func TestMeta(t *testing.T) {
	meta := Query{Page: 2, Limit: 10}.Meta(45)
	assert.EqualValues(t, 45, meta.Total)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 10, meta.Limit)
	assert.Equal(t, 5, meta.TotalPages)

	assert.Equal(t, 0, Query{Page: 1, Limit: 10}.Meta(0).TotalPages)
}
