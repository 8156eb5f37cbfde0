package delivery

import (
	"net/http"
	"net/url"
	"strings"

	authdomain "imagepro-backend/internal/auth/domain"
	"imagepro-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type routeKind int

const (
	routeUnmatched routeKind = iota
	routeProtected
	routeAuthOnly
	routeCallback
	routePublic
)

// matchRoute classifies page paths for the guard. Anything not listed is
// left alone.
func matchRoute(path string) routeKind {
	switch {
	case path == dashboardPath || strings.HasPrefix(path, dashboardPath+"/"):
		return routeProtected
	case path == loginPath || path == "/signup":
		return routeAuthOnly
	case path == "/auth/callback":
		return routeCallback
	case path == "/forgot-password" || path == "/reset-password":
		return routePublic
	default:
		return routeUnmatched
	}
}

// RouteGuard redirects page requests based on the caller's session. It
// never fails a request: a lookup error counts as "no session".
func RouteGuard(authUsecase usecase.AuthUsecase, log logrus.FieldLogger) gin.HandlerFunc {
	log = log.WithField("component", "route_guard")

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		kind := matchRoute(path)

		// the callback establishes the session itself
		if kind == routeUnmatched || kind == routeCallback {
			c.Next()
			return
		}

		session, err := authUsecase.GetSession(c.Request.Context(), NewCookieCarrier(c))
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("session lookup failed")
			session = nil
		}

		switch {
		case kind == routeProtected && session == nil:
			c.Redirect(http.StatusFound, loginPath+"?redirect="+url.QueryEscape(path))
			c.Abort()
			return
		case kind == routeAuthOnly && session != nil:
			c.Redirect(http.StatusFound, dashboardPath)
			c.Abort()
			return
		}

		if session != nil {
			c.Set("userID", session.User.ID)
		}
		c.Next()
	}
}

// RequireSession is the API counterpart of RouteGuard: it answers 401
// instead of redirecting.
func RequireSession(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := authUsecase.GetSession(c.Request.Context(), NewCookieCarrier(c))
		if err != nil || session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": authdomain.ErrNoSession.Error()})
			return
		}

		c.Set("userID", session.User.ID)
		c.Next()
	}
}
