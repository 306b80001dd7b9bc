package controller

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/SengHong/CertSend/internal/template"
	"github.com/SengHong/CertSend/internal/util"
	"github.com/gin-gonic/gin"
)

type TemplateController struct {
	*baseController
}

const (
	ErrImageFileRequired   = "an image file is required when saving a new template"
	ErrImageFileUnreadable = "could not read the uploaded image file"
)

type templateView struct {
	template.Settings
	HasImage bool `json:"hasImage"`
}

func toView(t template.Template) templateView {
	return templateView{Settings: t.Settings(), HasImage: len(t.ImageData) > 0}
}

func (tc TemplateController) List(ctx *gin.Context) {
	all := tc.app.Templates.List()
	views := make([]templateView, 0, len(all))
	for _, t := range all {
		views = append(views, toView(t))
	}

	util.ResponseSuccess(ctx, gin.H{"templates": views})
}

func (tc TemplateController) Get(ctx *gin.Context) {
	name := ctx.Param("name")

	t, err := tc.app.Templates.Get(name)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusNotFound, "Template not found", util.GenerateErrorMessages(err, "name"), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"template": toView(t)})
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(src)
}

// Upsert saves a template under its name, fully replacing any previous
// version. The image file is optional on re-save: without one, the stored
// image is carried over.
func (tc TemplateController) Upsert(ctx *gin.Context) {
	type Request struct {
		Name              string `form:"name" binding:"required,strNotEmpty,max=100"`
		OverlayText       string `form:"overlayText"`
		FontSizePx        int    `form:"fontSizePx" binding:"required,numeric"`
		FontColor         string `form:"fontColor" binding:"required,strNotEmpty"`
		YPositionPct      int    `form:"yPositionPct"`
		FontFamily        string `form:"fontFamily"`
		EmailSubject      string `form:"emailSubject"`
		EmailBodyTemplate string `form:"emailBodyTemplate"`
	}
	var body Request

	if err := ctx.ShouldBind(&body); err != nil {
		tc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	tmpl := template.Template{
		Name:              strings.TrimSpace(body.Name),
		OverlayText:       body.OverlayText,
		FontSizePx:        body.FontSizePx,
		FontColor:         body.FontColor,
		YPositionPct:      body.YPositionPct,
		FontFamily:        body.FontFamily,
		EmailSubject:      body.EmailSubject,
		EmailBodyTemplate: body.EmailBodyTemplate,
	}

	if file, err := ctx.FormFile("image"); err == nil {
		data, err := readUpload(file)
		if err != nil {
			tc.app.Logger.Error(err)
			util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid image file", util.GenerateErrorMessages(errors.New(ErrImageFileUnreadable), "image"), nil)
			return
		}
		tmpl.ImageData = data
	} else if existing, getErr := tc.app.Templates.Get(tmpl.Name); getErr == nil {
		tmpl.ImageData = existing.ImageData
	} else {
		util.ResponseFailed(ctx, http.StatusBadRequest, "No image uploaded", util.GenerateErrorMessages(errors.New(ErrImageFileRequired), "image"), nil)
		return
	}

	if err := tc.app.Templates.Upsert(tmpl); err != nil {
		tc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Failed to save template", util.GenerateErrorMessages(err), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"template": toView(tmpl)})
}

func (tc TemplateController) Delete(ctx *gin.Context) {
	name := ctx.Param("name")

	if err := tc.app.Templates.Delete(name); err != nil {
		util.ResponseFailed(ctx, http.StatusNotFound, "Template not found", util.GenerateErrorMessages(err, "name"), nil)
		return
	}

	util.ResponseSuccess(ctx, nil)
}

// Export streams the image-free settings payload as a JSON download.
func (tc TemplateController) Export(ctx *gin.Context) {
	name := ctx.Param("name")

	payload, err := tc.app.Templates.Export(name)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusNotFound, "Template not found", util.GenerateErrorMessages(err, "name"), nil)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", util.ExportFileName(name)))
	ctx.Data(http.StatusOK, "application/json", payload)
}

// Import parses an exported settings file. The parsed settings come back to
// the caller, who decides what image-bearing template to merge them into.
func (tc TemplateController) Import(ctx *gin.Context) {
	file, err := ctx.FormFile("settings")
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "No settings file uploaded", util.GenerateErrorMessages(err, "settings"), nil)
		return
	}

	payload, err := readUpload(file)
	if err != nil {
		tc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Could not read settings file", util.GenerateErrorMessages(err, "settings"), nil)
		return
	}

	settings, err := tc.app.Templates.Import(payload)
	if err != nil {
		tc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Could not import template settings", util.GenerateErrorMessages(err, "settings"), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"settings": settings})
}

// Preview renders the named template with an ad-hoc display name and returns
// the PNG, the single-certificate path of the template editor.
func (tc TemplateController) Preview(ctx *gin.Context) {
	type Request struct {
		DisplayName string `json:"displayName" form:"displayName"`
	}
	var body Request

	if err := ctx.ShouldBind(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	t, err := tc.app.Templates.Get(ctx.Param("name"))
	if err != nil {
		util.ResponseFailed(ctx, http.StatusNotFound, "Template not found", util.GenerateErrorMessages(err, "name"), nil)
		return
	}

	img, err := tc.app.Compositor.Render(t.ImageData, t.RenderRequest(), body.DisplayName)
	if err != nil {
		tc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusUnprocessableEntity, "Failed to render preview", util.GenerateErrorMessages(err), nil)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", util.CertificateFileName(body.DisplayName)))
	ctx.Data(http.StatusOK, "image/png", img)
}
