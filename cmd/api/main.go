package main

import (
	appcontext "github.com/SengHong/CertSend/internal/app_context"
	"github.com/SengHong/CertSend/internal/batch"
	"github.com/SengHong/CertSend/internal/config"
	"github.com/SengHong/CertSend/internal/controller"
	"github.com/SengHong/CertSend/internal/env"
	"github.com/SengHong/CertSend/internal/middleware"
	ratelimiter "github.com/SengHong/CertSend/internal/rate_limiter"
	"github.com/SengHong/CertSend/internal/route"
	"github.com/SengHong/CertSend/internal/storage"
	"github.com/SengHong/CertSend/internal/template"
	"github.com/SengHong/CertSend/internal/transport"
	"github.com/SengHong/CertSend/internal/util"
	"github.com/SengHong/CertSend/pkg/certimg"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

func main() {
	cfg := config.GetConfig()

	logger := util.NewLogger(cfg.ENV)
	logger.Debugf("Configuration: %+v \n", cfg)

	store, err := storage.NewBoltStore(cfg.Storage.Path)
	if err != nil {
		logger.Panic(err)
	}
	defer store.Close()
	logger.Info("Template storage opened")

	fontLoader, err := certimg.NewFontLoader(cfg.Render.FontMetadataPath, map[certimg.FontClass]string{
		certimg.FontClassCursive:   cfg.Render.FallbackCursive,
		certimg.FontClassSerif:     cfg.Render.FallbackSerif,
		certimg.FontClassSansSerif: cfg.Render.FallbackSansSerif,
	})
	if err != nil {
		logger.Panic(err)
	}

	clipboard, err := transport.NewFileClipboard(cfg.Outbox.Dir)
	if err != nil {
		logger.Panic(err)
	}

	// Custom validation
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("strNotEmpty", util.StrNotEmpty); err != nil {
			return
		}
	}

	compositor := certimg.NewCompositor(fontLoader)
	mail := transport.NewMailtoOpener(nil, logger)
	rateLimiter := ratelimiter.NewRateLimiter(cfg.RateLimiter, logger)

	app := appcontext.Application{
		Config:     &cfg,
		Logger:     logger,
		Templates:  template.NewStore(store, logger),
		Batch:      batch.NewBatch(compositor, clipboard, mail, logger),
		Compositor: compositor,
	}

	_middleware := middleware.NewMiddleware(&app, rateLimiter)

	if cfg.IsProduction() {
		logger.Info("Running in production mode")
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With", "Accept"}
	r.Use(cors.New(corsConfig))

	_controller := controller.NewController(&app)

	r.GET("/", _controller.Index.Index)

	rApi := r.Group("/api")

	route.V1_Templates(rApi, _controller.Template, _middleware)
	route.V1_Batch(rApi, _controller.Batch, _middleware)

	if err := r.Run("0.0.0.0:" + app.Config.Port); err != nil {
		logger.Panicf("Error running server: %v \n", err)
	}
}
