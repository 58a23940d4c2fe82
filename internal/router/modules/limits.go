package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/mycookbook-api/internal/application"
	"github.com/oksasatya/mycookbook-api/internal/container"
	"github.com/oksasatya/mycookbook-api/internal/interface/middleware"
)

// counter is the shared Redis counter, or nil when Redis is not configured.
func counter() middleware.Counter {
	if rdb := container.GetRedis(); rdb != nil {
		return middleware.RedisCounter{RDB: rdb}
	}
	return nil
}

func perIP(max int) gin.HandlerFunc {
	return middleware.RateLimit(counter(), middleware.Rule{Max: max, Window: time.Minute, Key: middleware.KeyByIPAndRoute()})
}

// writesPerUser limits mutating requests of one user; reads pass.
func writesPerUser(max int) gin.HandlerFunc {
	return middleware.RateLimit(counter(), middleware.Rule{
		Max:    max,
		Window: time.Minute,
		Key:    middleware.KeyByUserID(),
		Allow:  middleware.AllowReadOnly(),
	})
}

func authenticated(identity *application.Identity) gin.HandlerFunc {
	return middleware.Auth(identity, container.GetLogger())
}
