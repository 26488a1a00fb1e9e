package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func recorder() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestInternalIncludesMessage(t *testing.T) {
	c, w := recorder()
	Internal(c, "Failed to fetch users", errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch users","message":"connection refused"}`, w.Body.String())
}

func TestErrorOmitsMessage(t *testing.T) {
	c, w := recorder()
	Error(c, http.StatusNotFound, "User not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, w.Body.String())
}

func TestValidation(t *testing.T) {
	c, w := recorder()
	Validation(c, map[string][]string{"name": {"is required"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":{"name":["is required"]}}`, w.Body.String())
}

func TestAbortStopsChain(t *testing.T) {
	c, w := recorder()
	Abort(c, http.StatusUnauthorized, "Unauthorized")

	assert.True(t, c.IsAborted())
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}
