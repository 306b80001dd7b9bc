package route

import (
	"github.com/SengHong/CertSend/internal/controller"
	"github.com/SengHong/CertSend/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Batch(r *gin.RouterGroup, bc *controller.BatchController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/batch")
	v1.Use(middleware.RateLimiterMiddleware)
	{
		v1.POST("/import", bc.Import)
		v1.GET("", bc.List)
		v1.POST("/recipients/:id/dispatch", bc.Dispatch)
		v1.GET("/recipients/:id/certificate", bc.Download)
	}
}
