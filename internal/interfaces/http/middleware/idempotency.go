package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainerrors "merchant-connect.backend/internal/domain/errors"
	"merchant-connect.backend/pkg/logger"
	"merchant-connect.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is the time we hold the lock while processing
	LockDuration = 60 * time.Second
	// RetentionDuration is how long we keep the response
	RetentionDuration = 24 * time.Hour

	processingMarker = "processing"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

// storedResponse is the replayable form of a completed request
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        string `json:"body"`
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// IdempotencyMiddleware replays the first completed response for a repeated
// Idempotency-Key. Keys are scoped by the scope route param. Requests without
// the header, or while Redis is unavailable, pass straight through.
func IdempotencyMiddleware(scopeParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		storageKey := fmt.Sprintf("idempotency:%s:%s", c.Param(scopeParam), key)
		ctx := c.Request.Context()

		val, err := redisGet(ctx, storageKey)
		switch {
		case err == nil:
			if val == processingMarker {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"error": "Request already in progress",
					"code":  domainerrors.CodeIdempotencyBusy,
				})
				return
			}
			var stored storedResponse
			if jsonErr := json.Unmarshal([]byte(val), &stored); jsonErr != nil {
				logger.Warn(ctx, "Discarding unreadable idempotency record", zap.Error(jsonErr))
				_ = redisDel(ctx, storageKey)
				c.Next()
				return
			}
			c.Header("X-Idempotency-Hit", "true")
			c.Data(stored.Status, stored.ContentType, []byte(stored.Body))
			c.Abort()
			return
		case !errors.Is(err, redis.Nil):
			logger.Warn(ctx, "Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}

		acquired, err := redisSetNX(ctx, storageKey, processingMarker, LockDuration)
		if err != nil || !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": "Request in progress",
				"code":  domainerrors.CodeIdempotencyBusy,
			})
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			record, _ := json.Marshal(storedResponse{
				Status:      status,
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        w.body.String(),
			})
			if err := redisSet(ctx, storageKey, string(record), RetentionDuration); err != nil {
				logger.Warn(ctx, "Failed to store idempotent response", zap.Error(err))
			}
			return
		}
		// Remove key so retry is possible
		_ = redisDel(ctx, storageKey)
	}
}
