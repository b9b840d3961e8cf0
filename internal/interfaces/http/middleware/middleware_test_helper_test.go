package middleware

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	redispkg "merchant-connect.backend/pkg/redis"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func startMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis unavailable in this environment: %v", err)
	}
	t.Cleanup(srv.Close)

	orig := redispkg.GetClient()
	cli := redisv9.NewClient(&redisv9.Options{Addr: srv.Addr()})
	redispkg.SetClient(cli)
	t.Cleanup(func() {
		_ = cli.Close()
		redispkg.SetClient(orig)
	})
	return srv
}
