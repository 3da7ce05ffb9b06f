package httpserver

import (
	"net/http"

	"evento-notification/pkg/errors"
	"evento-notification/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "evento-notification"
	serviceVersion = "1.0.0"
)

var (
	errPostgresUnavailable = errors.NewHTTPError(http.StatusServiceUnavailable, "PostgreSQL connection failed", http.StatusServiceUnavailable)
	errRedisUnavailable    = errors.NewHTTPError(http.StatusServiceUnavailable, "Redis connection failed", http.StatusServiceUnavailable)
	errNotAccepting        = errors.NewHTTPError(http.StatusServiceUnavailable, "Not accepting connections", http.StatusServiceUnavailable)
)

// healthCheck reports dependency status and registry counters.
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if err := srv.postgresDB.PingContext(ctx); err != nil {
		srv.logger.Errorf(ctx, "internal.httpserver.healthCheck.PingContext: %v", err)
		response.HttpError(c, errPostgresUnavailable)
		return
	}

	redisStatus := "disabled"
	if srv.redis != nil {
		if err := srv.redis.Ping(ctx); err != nil {
			srv.logger.Errorf(ctx, "internal.httpserver.healthCheck.Ping: %v", err)
			response.HttpError(c, errRedisUnavailable)
			return
		}
		redisStatus = "connected"
	}

	stats := srv.wsUC.GetStats(ctx)

	listenerStatus := "standby"
	if srv.listener.Leader() {
		listenerStatus = "leader"
	}

	response.OK(c, gin.H{
		"status":             "healthy",
		"version":            serviceVersion,
		"service":            serviceName,
		"environment":        srv.environment,
		"active_connections": stats.ActiveConnections,
		"total_unique_users": stats.TotalUniqueUsers,
		"postgres":           "connected",
		"redis":              redisStatus,
		"listener":           listenerStatus,
	})
}

// readyCheck fails while dependencies are down or the registry refuses connections.
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if err := srv.postgresDB.PingContext(ctx); err != nil {
		response.HttpError(c, errPostgresUnavailable)
		return
	}
	if srv.redis != nil {
		if err := srv.redis.Ping(ctx); err != nil {
			response.HttpError(c, errRedisUnavailable)
			return
		}
	}
	if err := srv.wsUC.Accepting(ctx); err != nil {
		response.HttpError(c, errNotAccepting)
		return
	}

	response.OK(c, gin.H{
		"status":  "ready",
		"version": serviceVersion,
		"service": serviceName,
	})
}

func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"version": serviceVersion,
		"service": serviceName,
	})
}
