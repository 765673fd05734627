package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UnifiedResponse represents the standard API response format
type UnifiedResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *MetaInfo   `json:"meta"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Details string `json:"details"`
}

// MetaInfo represents response metadata
type MetaInfo struct {
	RequestID     string `json:"request_id"`
	Timestamp     string `json:"timestamp"`
	ExecutionTime string `json:"execution_time"`
	Method        string `json:"method"`
	Path          string `json:"path"`
}

// responseWriter wraps gin.ResponseWriter to capture response
type responseWriter struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (w *responseWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
}

// UnifiedResponseMiddleware transforms all service responses to unified format
func UnifiedResponseMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := uuid.New().String()
		c.Set("request_id", requestID)

		// WebSocket upgrades, swagger assets and file exports pass through untouched
		if shouldSkipUnifiedResponse(c) {
			c.Next()
			return
		}

		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
			status:         200,
		}
		c.Writer = w

		c.Next()

		executionTime := time.Since(startTime)

		originalResponse := w.body.String()
		statusCode := w.status

		// Binary downloads keep their original body and headers
		contentType := w.ResponseWriter.Header().Get("Content-Type")
		if contentType != "" && !strings.Contains(contentType, "application/json") {
			w.ResponseWriter.WriteHeader(statusCode)
			w.ResponseWriter.Write(w.body.Bytes())
			return
		}

		unified := transformToUnifiedResponse(c, originalResponse, statusCode, requestID, executionTime)

		w.ResponseWriter.Header().Set("Content-Type", "application/json")
		w.ResponseWriter.WriteHeader(statusCode)
		json.NewEncoder(w.ResponseWriter).Encode(unified)
	}
}

func shouldSkipUnifiedResponse(c *gin.Context) bool {
	path := c.Request.URL.Path

	if strings.HasPrefix(path, "/swagger") || strings.HasPrefix(path, "/ws/") {
		return true
	}
	if strings.HasSuffix(path, "/export") {
		return true
	}
	// WebSocket upgrade requests are hijacked and cannot be buffered
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}

// transformToUnifiedResponse converts original response to unified format
func transformToUnifiedResponse(c *gin.Context, originalResponse string, statusCode int, requestID string, executionTime time.Duration) UnifiedResponse {
	isSuccess := statusCode >= 200 && statusCode < 300

	unified := UnifiedResponse{
		Success: isSuccess,
		Message: getAutoMessage(c.Request.Method, statusCode, isSuccess),
		Meta: &MetaInfo{
			RequestID:     requestID,
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			ExecutionTime: fmt.Sprintf("%dms", executionTime.Milliseconds()),
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
		},
	}

	if originalResponse == "" {
		return unified
	}

	var originalData interface{}
	if err := json.Unmarshal([]byte(originalResponse), &originalData); err != nil {
		if !isSuccess {
			unified.Error = &ErrorInfo{Code: getErrorCode(statusCode), Details: originalResponse}
		}
		return unified
	}

	if isSuccess {
		if dataMap, ok := originalData.(map[string]interface{}); ok {
			if data, exists := dataMap["data"]; exists {
				unified.Data = data
				// Keep pagination next to the data it describes
				if pagination, exists := dataMap["pagination"]; exists {
					unified.Data = map[string]interface{}{
						"items":      data,
						"pagination": pagination,
					}
				}
			} else {
				unified.Data = originalData
			}
			if msg, exists := dataMap["message"]; exists {
				if msgStr, ok := msg.(string); ok && msgStr != "" {
					unified.Message = msgStr
				}
			}
		} else {
			unified.Data = originalData
		}
		return unified
	}

	if errorMap, ok := originalData.(map[string]interface{}); ok {
		code := getErrorCode(statusCode)
		// Services emit their own workflow error codes, keep them
		if rawCode, exists := errorMap["code"]; exists {
			if codeStr, ok := rawCode.(string); ok && codeStr != "" {
				code = codeStr
			}
		}
		details := originalResponse
		if errMsg, exists := errorMap["error"]; exists {
			details = fmt.Sprintf("%v", errMsg)
		}
		unified.Error = &ErrorInfo{Code: code, Details: details}
	} else {
		unified.Error = &ErrorInfo{Code: getErrorCode(statusCode), Details: originalResponse}
	}

	return unified
}

// getAutoMessage generates automatic messages based on HTTP method and status
func getAutoMessage(method string, statusCode int, isSuccess bool) string {
	if !isSuccess {
		return "Request failed"
	}

	switch method {
	case "POST":
		if statusCode == 201 {
			return "Resource created successfully"
		}
		return "Operation completed successfully"
	case "PUT", "PATCH":
		return "Resource updated successfully"
	case "DELETE":
		return "Resource deleted successfully"
	default:
		return "Request completed successfully"
	}
}

// getErrorCode maps HTTP status codes to error codes
func getErrorCode(statusCode int) string {
	switch statusCode {
	case 400:
		return "BAD_REQUEST"
	case 401:
		return "UNAUTHORIZED"
	case 403:
		return "FORBIDDEN"
	case 404:
		return "NOT_FOUND"
	case 409:
		return "CONFLICT"
	case 422:
		return "VALIDATION_ERROR"
	case 429:
		return "RATE_LIMITED"
	case 500:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}
