package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, method, path string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(method, path, nil)
	return c
}

func TestTransformSuccessWrapsData(t *testing.T) {
	c := testContext(t, "GET", "/api/users")

	unified := transformToUnifiedResponse(c, `{"data":[{"id":1}]}`, 200, "req-1", 5*time.Millisecond)

	assert.True(t, unified.Success)
	assert.Nil(t, unified.Error)
	assert.NotNil(t, unified.Data)
	require.NotNil(t, unified.Meta)
	assert.Equal(t, "req-1", unified.Meta.RequestID)
	assert.Equal(t, "GET", unified.Meta.Method)
	assert.Equal(t, "/api/users", unified.Meta.Path)
}

func TestTransformKeepsPaginationWithData(t *testing.T) {
	c := testContext(t, "GET", "/api/users")

	unified := transformToUnifiedResponse(c,
		`{"data":[],"pagination":{"page":1,"limit":10,"total":0}}`, 200, "req-2", time.Millisecond)

	dataMap, ok := unified.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, dataMap, "items")
	assert.Contains(t, dataMap, "pagination")
}

func TestTransformErrorKeepsServiceCode(t *testing.T) {
	c := testContext(t, "POST", "/api/auth/login")

	unified := transformToUnifiedResponse(c,
		`{"error":"Account pending approval","code":"ACCOUNT_NOT_APPROVED"}`, 403, "req-3", time.Millisecond)

	assert.False(t, unified.Success)
	require.NotNil(t, unified.Error)
	assert.Equal(t, "ACCOUNT_NOT_APPROVED", unified.Error.Code)
	assert.Equal(t, "Account pending approval", unified.Error.Details)
}

func TestTransformErrorFallsBackToStatusCode(t *testing.T) {
	c := testContext(t, "GET", "/api/users/unknown")

	unified := transformToUnifiedResponse(c, `{"error":"User not found"}`, 404, "req-4", time.Millisecond)

	require.NotNil(t, unified.Error)
	assert.Equal(t, "NOT_FOUND", unified.Error.Code)
}

func TestShouldSkipUnifiedResponse(t *testing.T) {
	ws := testContext(t, "GET", "/ws/notifications/abc")
	assert.True(t, shouldSkipUnifiedResponse(ws))

	swagger := testContext(t, "GET", "/swagger/index.html")
	assert.True(t, shouldSkipUnifiedResponse(swagger))

	export := testContext(t, "GET", "/api/salaries/export")
	assert.True(t, shouldSkipUnifiedResponse(export))

	upgrade := testContext(t, "GET", "/api/anything")
	upgrade.Request.Header.Set("Upgrade", "websocket")
	assert.True(t, shouldSkipUnifiedResponse(upgrade))

	plain := testContext(t, "GET", "/api/users")
	assert.False(t, shouldSkipUnifiedResponse(plain))
}
