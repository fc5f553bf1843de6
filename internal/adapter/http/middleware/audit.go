package middleware

import (
	"net/http"

	"wager-treasury/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// auditedRoutes maps money-moving and operator routes to audit actions.
var auditedRoutes = map[string]string{
	http.MethodPost + " /api/v1/wagers/:id/resolve":          "wager.resolve",
	http.MethodPost + " /api/v1/wagers/sweep":                "wager.sweep",
	http.MethodPost + " /api/v1/treasury/buyback":            "buyback.run",
	http.MethodPost + " /api/v1/treasury/buyback/:id/resume": "buyback.resume",
}

// AuditLog writes one audit line per call to an audited route, successful
// or not, naming the caller from the token.
func AuditLog(log zerolog.Logger) gin.HandlerFunc {
	log = logger.Component(log, "audit")
	return func(c *gin.Context) {
		c.Next()

		action, ok := mapRouteToAction(c.Request.Method, c.FullPath())
		if !ok {
			return
		}

		status := c.Writer.Status()
		event := log.Info()
		if status >= http.StatusBadRequest {
			event = log.Warn()
		}
		event.
			Str("action", action).
			Str("subject", c.GetString(CtxSubject)).
			Str("role", c.GetString(CtxRole)).
			Str("request_id", c.GetString(CtxRequestID)).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Str("client_ip", c.ClientIP()).
			Msg("audit")
	}
}

func mapRouteToAction(method, route string) (string, bool) {
	action, ok := auditedRoutes[method+" "+route]
	return action, ok
}
