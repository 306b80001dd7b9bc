package controller

import (
	"github.com/SengHong/CertSend/internal/util"
	"github.com/SengHong/CertSend/pkg/certimg"
	"github.com/gin-gonic/gin"
)

type IndexController struct {
	*baseController
}

func (ic IndexController) Index(ctx *gin.Context) {
	util.ResponseSuccess(ctx, gin.H{
		"service": "CertSend",
		"env":     ic.app.Config.ENV,
		"fonts":   certimg.SupportedFamilies(),
	})
}
