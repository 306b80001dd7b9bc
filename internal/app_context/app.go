package appcontext

import (
	"github.com/SengHong/CertSend/internal/batch"
	"github.com/SengHong/CertSend/internal/config"
	"github.com/SengHong/CertSend/internal/template"
	"github.com/SengHong/CertSend/pkg/certimg"
	"go.uber.org/zap"
)

// Application contains core dependencies for the app.
type Application struct {
	// Config holds application settings provided from .env file.
	Config *config.Config

	Logger *zap.SugaredLogger

	// Templates owns the saved template collection and its persistence.
	Templates *template.Store

	// Batch owns the current recipient batch and the dispatch flow.
	Batch *batch.Batch

	// Compositor renders a display name over a template's base image.
	Compositor *certimg.Compositor
}
