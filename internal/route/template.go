package route

import (
	"github.com/SengHong/CertSend/internal/controller"
	"github.com/SengHong/CertSend/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Templates(r *gin.RouterGroup, tc *controller.TemplateController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/templates")
	v1.Use(middleware.RateLimiterMiddleware)
	{
		v1.GET("", tc.List)
		v1.POST("", tc.Upsert)
		v1.POST("/import", tc.Import)
		v1.GET("/:name", tc.Get)
		v1.DELETE("/:name", tc.Delete)
		v1.GET("/:name/export", tc.Export)
		v1.POST("/:name/preview", tc.Preview)
	}
}
