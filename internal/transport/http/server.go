package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/chatline-server/internal/config"
	"github.com/vovakirdan/chatline-server/internal/core"
)

// NewServer builds the HTTP server: a greeting, a health probe, the REST API and the WebSocket endpoint.
// /ws is served outside gin so Accept can hijack the connection.
func NewServer(hub *core.Hub, api *APIHandlers, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, WSOptions{
		MaxMessageBytes: cfg.WS.MaxMessageBytes,
		QueueSize:       cfg.WS.QueueSize,
		OriginPatterns:  cfg.CORS.AllowedOrigins,
	}, logger))
	mux.Handle("/", NewRouter(api, cfg, logger))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter registers the HTTP routes on a gin engine.
func NewRouter(api *APIHandlers, cfg *config.Config, logger *zerolog.Logger) *gin.Engine {
	if logger.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(LoggerMiddleware(logger))

	router.GET("/", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "Hello from server")
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/register", api.Register)
		apiGroup.POST("/login", api.Login)
		apiGroup.GET("/users", api.ListUsers)
		apiGroup.GET("/chats", api.ListChats)
	}

	return router
}
