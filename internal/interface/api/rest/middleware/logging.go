package middleware

import (
	"bytes"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const maxLogBodySize = 1 << 12 // 4 KB

var passwordRe = regexp.MustCompile(`("password"\s*:\s*)"(?:[^"\\]|\\.)*"`)

func RequestLogGin(logger *zap.Logger, mCounter *prometheus.CounterVec) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method == http.MethodOptions ||
			path == "/favicon.ico" ||
			strings.HasSuffix(path, "/metrics") ||
			strings.HasSuffix(path, "/healthz") {
			c.Next()
			return
		}

		start := time.Now()
		body := captureBody(c)

		c.Next()

		status := c.Writer.Status()
		if mCounter != nil {
			mCounter.WithLabelValues("app_requests_total").Inc()
			if status >= http.StatusInternalServerError {
				mCounter.WithLabelValues("app_requests_failed_total").Inc()
			}
		}

		route := c.FullPath()
		if route == "" {
			route = path
		}

		lvl := zapcore.InfoLevel
		switch {
		case status >= http.StatusInternalServerError:
			lvl = zapcore.ErrorLevel
		case status >= http.StatusBadRequest:
			lvl = zapcore.WarnLevel
		}

		logger.Log(lvl, "HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("body", body),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// captureBody reads up to maxLogBodySize of a JSON body for the log line and
// puts the full body back. Uploads are never read here.
func captureBody(c *gin.Context) string {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return ""
	}
	if !strings.HasPrefix(c.GetHeader("Content-Type"), "application/json") {
		return "<" + c.ContentType() + " omitted>"
	}

	head, err := io.ReadAll(io.LimitReader(c.Request.Body, maxLogBodySize))
	if err != nil {
		return ""
	}
	c.Request.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), c.Request.Body), c.Request.Body}

	return passwordRe.ReplaceAllString(string(head), `$1"***"`)
}
