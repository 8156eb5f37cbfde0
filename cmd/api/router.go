package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"imagepro-backend/internal/auth/delivery"
	"imagepro-backend/pkg/storage"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	// page requests pass through the guard before the frontend is served
	r.Use(delivery.RouteGuard(h.authUsecase, h.log))

	r.GET("/auth/callback", h.callbackHandler.Callback)
	r.GET("/auth/google", h.authHandler.GoogleSignIn)

	// locally stored avatars are served by this process
	if local, ok := h.store.(*storage.LocalStorage); ok {
		prefix := strings.TrimSuffix(local.PublicURL(""), "/")
		if strings.HasPrefix(prefix, "/") {
			r.Static(prefix, local.Dir())
		}
	}

	requireSession := delivery.RequireSession(h.authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.authHandler.Login)
			auth.POST("/signup", h.authHandler.SignUp)
			auth.POST("/logout", h.authHandler.Logout)
			auth.GET("/session", h.authHandler.Session)
			auth.POST("/forgot-password", h.authHandler.ForgotPassword)
			auth.POST("/reset-password", h.authHandler.ResetPassword)
			auth.PUT("/password", requireSession, h.authHandler.UpdatePassword)
		}

		// Profile routes (protected)
		profile := api.Group("/profile")
		profile.Use(requireSession)
		{
			profile.GET("", h.profileHandler.GetProfile)
			profile.PATCH("", h.profileHandler.UpdateProfile)
			profile.PUT("/avatar", h.profileHandler.UploadAvatar)
		}

		api.DELETE("/account", requireSession, h.profileHandler.DeleteAccount)
	}

	r.NoRoute(servePages(h.config.WebDir))
}

// servePages serves the exported frontend from webDir. Unknown page paths
// fall back to index.html so client-side routing can take over.
func servePages(webDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		clean := filepath.Clean("/" + path)
		candidates := []string{
			filepath.Join(webDir, clean),
			filepath.Join(webDir, clean+".html"),
			filepath.Join(webDir, clean, "index.html"),
		}
		for _, candidate := range candidates {
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				c.File(candidate)
				return
			}
		}

		c.File(filepath.Join(webDir, "index.html"))
	}
}
