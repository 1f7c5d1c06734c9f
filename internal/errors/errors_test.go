package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		input    string
		expected string
	}{
		{name: "development keeps details", env: "development", input: "dial tcp: connection refused", expected: "dial tcp: connection refused"},
		{name: "production hides connection errors", env: "production", input: "dial tcp: connection refused", expected: "connection error occurred"},
		{name: "production hides timeouts", env: "production", input: "context deadline exceeded", expected: "request timed out"},
		{name: "production hides binding errors", env: "production", input: "binding failed on alias", expected: "validation failed"},
		{name: "production generic fallback", env: "production", input: "boom", expected: "an error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", tt.env)
			assert.Equal(t, tt.expected, SanitizeString(tt.input))
		})
	}
}

func TestResponses(t *testing.T) {
	tests := []struct {
		name   string
		write  func(c *gin.Context)
		status int
		code   string
	}{
		{name: "bad request", write: func(c *gin.Context) { BadRequest(c, "", fmt.Errorf("alias too long")) }, status: http.StatusBadRequest, code: CodeBadRequest},
		{name: "too many requests", write: func(c *gin.Context) { TooManyRequests(c, "") }, status: http.StatusTooManyRequests, code: CodeTooManyRequests},
		{name: "service unavailable", write: func(c *gin.Context) { ServiceUnavailable(c, "") }, status: http.StatusServiceUnavailable, code: CodeServiceUnavailable},
		{name: "not found", write: func(c *gin.Context) { NotFound(c, "room") }, status: http.StatusNotFound, code: CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/ws", nil)

			tt.write(c)

			assert.Equal(t, tt.status, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error)
			assert.NotEmpty(t, resp.Message)
		})
	}
}
