package api

import (
	authDelivery "imagepro-backend/internal/auth/delivery"
	authUsecase "imagepro-backend/internal/auth/usecase"
	profileDelivery "imagepro-backend/internal/profile/delivery"
	profileUsecase "imagepro-backend/internal/profile/usecase"
	"imagepro-backend/pkg/config"
	"imagepro-backend/pkg/logger"
	"imagepro-backend/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	authUsecase     authUsecase.AuthUsecase
	profileUsecase  profileUsecase.ProfileUsecase
	store           storage.Interface
	config          *config.Config
	log             *logrus.Logger
	authHandler     *authDelivery.AuthHandler
	callbackHandler *authDelivery.CallbackHandler
	profileHandler  *profileDelivery.ProfileHandler
}

func NewHandler(authUc authUsecase.AuthUsecase, profileUc profileUsecase.ProfileUsecase, store storage.Interface, cfg *config.Config, log *logrus.Logger) *Handler {
	// new email sign-ups get their profile through this hook
	authUc.SetProfileProvisioner(profileUc)

	return &Handler{
		authUsecase:     authUc,
		profileUsecase:  profileUc,
		store:           store,
		config:          cfg,
		log:             log,
		authHandler:     authDelivery.NewAuthHandler(authUc, cfg.SiteURL),
		callbackHandler: authDelivery.NewCallbackHandler(authUc, profileUc, log),
		profileHandler:  profileDelivery.NewProfileHandler(profileUc, authUc),
	}
}

// Engine builds the gin engine with middleware and routes
func (h *Handler) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(h.log))

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && origin == h.config.SiteURL {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)
	return r
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	h.log.WithField("addr", addr).Info("server starting")
	return h.Engine().Run(addr)
}
