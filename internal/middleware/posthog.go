package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/orders_sync_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// PosthogMiddleware tracks successful admin API calls with PostHog.
// Calls without an authenticated subject are not tracked.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		subject, exists := GetSubjectFromContext(c)
		if !exists {
			return
		}

		// "/api/v1/jobs/:name/run" -> "api_v1_jobs_:name_run"
		eventName := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string)
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		posthogClient.Enqueue(subject, eventName, props)
	}
}
