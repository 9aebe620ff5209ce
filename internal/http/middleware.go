package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"loginhub/internal/domain"
)

// userKey is the gin context key the auth middleware stores the resolved
// user under.
const userKey = "currentUser"

// RequestLogger tags every request with an id and logs method, path, status,
// and latency once the handler chain finishes.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Writer.Header().Set("X-Request-Id", requestID)

		c.Next()

		log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
		}).Info("request")
	}
}

// MustLogin gates a route to authenticated users. Anonymous requests are
// redirected to the login page; resolved users are stored on the context for
// the controller.
func (h *Handler) MustLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.sessions.Current(c.Request.Context(), h.sessionToken(c))
		if err != nil {
			h.renderError(c, err)
			c.Abort()
			return
		}
		if user == nil {
			c.Redirect(http.StatusFound, "/users/login")
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// MustNotLogin is the inverse gate: requests that already carry a live
// session are sent home.
func (h *Handler) MustNotLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.sessions.Current(c.Request.Context(), h.sessionToken(c))
		if err != nil {
			h.renderError(c, err)
			c.Abort()
			return
		}
		if user != nil {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Next()
	}
}

// currentUser returns the user MustLogin stored on the context, or nil.
func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, ok := v.(*domain.User)
	if !ok {
		return nil
	}
	return user
}
