package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/v1/test", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestOKEnvelope(t *testing.T) {
	c, w := testContext(t, "")
	OK(c, gin.H{"value": 42}, "All good")

	assert.Equal(t, http.StatusOK, w.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, true, got["success"])
	assert.EqualValues(t, 200, got["statusCode"])
	assert.Equal(t, "All good", got["message"])
	assert.Equal(t, map[string]interface{}{"value": float64(42)}, got["data"])
}

func TestErrorEnvelope(t *testing.T) {
	c, w := testContext(t, "")
	NotFound(c, "Post not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, c.IsAborted())

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, false, got["success"])
	assert.EqualValues(t, 404, got["statusCode"])
	assert.Equal(t, "Post not found", got["message"])
	assert.Equal(t, "/api/v1/test", got["path"])
	assert.NotEmpty(t, got["timestamp"])
	assert.NotContains(t, got, "errors")
}

func TestInternalErrorIsGeneric(t *testing.T) {
	c, w := testContext(t, "")
	InternalError(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "sql")
	assert.Contains(t, w.Body.String(), "Sorry, something went wrong")
}

func TestBindingFailedFieldErrors(t *testing.T) {
	type dto struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	c, w := testContext(t, `{"email":"not-an-email","password":"abc"}`)
	var d dto
	err := c.ShouldBindJSON(&d)
	require.Error(t, err)
	BindingFailed(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var got struct {
		Message string       `json:"message"`
		Errors  []FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Validation failed", got.Message)
	require.Len(t, got.Errors, 2)
	assert.Equal(t, "email", got.Errors[0].Field)
	assert.Equal(t, "must be a valid email address", got.Errors[0].Message)
	assert.Equal(t, "password", got.Errors[1].Field)
	assert.Equal(t, "must be at least 6 characters", got.Errors[1].Message)
}

func TestBindingFailedMalformedBody(t *testing.T) {
	c, w := testContext(t, `{not json`)
	var d struct {
		Email string `json:"email" binding:"required"`
	}
	err := c.ShouldBindJSON(&d)
	require.Error(t, err)
	BindingFailed(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Malformed request body")
}
