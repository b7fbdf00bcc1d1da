package gateway

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig collects everything the HTTP router needs.
type RouterConfig struct {
	Handlers     *Handlers
	AllowOrigins []string
	Debug        bool
}

// NewRouter builds the gin engine with CORS and all routes registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	h := cfg.Handlers

	router.GET("/", h.Index)
	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.GET("/config", h.GetConfig)
		api.POST("/analyze", h.Analyze)
		api.GET("/status/:id", h.Status)

		results := api.Group("/results/:id")
		{
			results.GET("/data", h.ResultsData)
			results.GET("/pdf", h.ResultsReport)
			results.POST("/chat", h.ChatAsk)
			results.GET("/chat/suggestions", h.ChatSuggestions)
			results.DELETE("/chat/history", h.ChatClearHistory)
		}
	}

	return router
}
