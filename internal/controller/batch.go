package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/SengHong/CertSend/internal/batch"
	"github.com/SengHong/CertSend/internal/util"
	"github.com/gin-gonic/gin"
)

type BatchController struct {
	*baseController
}

// Import replaces the current batch with the recipients of an uploaded CSV.
// Any validation failure leaves the previous batch untouched.
func (bc BatchController) Import(ctx *gin.Context) {
	file, err := ctx.FormFile("recipients")
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "No CSV file uploaded", util.GenerateErrorMessages(err, "recipients"), nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		bc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Could not read CSV file", util.GenerateErrorMessages(err, "recipients"), nil)
		return
	}
	defer src.Close()

	records, err := batch.ReadCSV(src)
	if err != nil {
		bc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Failed to parse the CSV file", util.GenerateErrorMessages(err, "recipients"), nil)
		return
	}

	recipients, err := batch.ValidateRecords(records)
	if err != nil {
		bc.app.Logger.Debugf("CSV rejected: %v", err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid recipient CSV", util.GenerateErrorMessages(err, "recipients"), nil)
		return
	}

	batchID := bc.app.Batch.Replace(recipients)

	util.ResponseSuccess(ctx, gin.H{
		"batchId": batchID,
		"loaded":  len(recipients),
	})
}

// List reports the batch partition and its derived progress.
func (bc BatchController) List(ctx *gin.Context) {
	inFlightID, busy := bc.app.Batch.InFlight()

	data := gin.H{
		"batchId":     bc.app.Batch.ID(),
		"pending":     bc.app.Batch.Pending(),
		"sent":        bc.app.Batch.Sent(),
		"total":       bc.app.Batch.Total(),
		"progressPct": bc.app.Batch.ProgressPct(),
	}
	if busy {
		data["inFlightId"] = inFlightID
	}

	util.ResponseSuccess(ctx, data)
}

func (bc BatchController) recipientID(ctx *gin.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, fmt.Errorf("recipient id must be a number: %w", err)
	}
	return id, nil
}

// Dispatch runs the render, clipboard and mail-client sequence for one
// recipient against the selected template.
func (bc BatchController) Dispatch(ctx *gin.Context) {
	type Request struct {
		Template string `json:"template" form:"template" binding:"required,strNotEmpty"`
	}
	var body Request

	id, err := bc.recipientID(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid recipient id", util.GenerateErrorMessages(err, "id"), nil)
		return
	}

	if err := ctx.ShouldBind(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	tmpl, err := bc.app.Templates.Get(body.Template)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Please select a valid template first", util.GenerateErrorMessages(batch.ErrNoTemplateSelected, "template"), nil)
		return
	}

	if err := bc.app.Batch.Dispatch(id, &tmpl); err != nil {
		bc.app.Logger.Errorf("Dispatch failed for recipient %d: %v", id, err)
		util.ResponseFailed(ctx, dispatchStatus(err), "Could not process recipient", util.GenerateErrorMessages(err, "recipient"), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"sent":        bc.app.Batch.Sent(),
		"pending":     bc.app.Batch.Pending(),
		"progressPct": bc.app.Batch.ProgressPct(),
	})
}

func dispatchStatus(err error) int {
	switch {
	case errors.Is(err, batch.ErrRecipientNotFound):
		return http.StatusNotFound
	case errors.Is(err, batch.ErrNoTemplateSelected):
		return http.StatusBadRequest
	case errors.Is(err, batch.ErrDispatchInFlight):
		return http.StatusConflict
	default:
		// Render and transport failures are retryable.
		return http.StatusUnprocessableEntity
	}
}

// Download renders a recipient's certificate and streams the PNG, the
// direct-download alternative to the clipboard hand-off.
func (bc BatchController) Download(ctx *gin.Context) {
	id, err := bc.recipientID(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid recipient id", util.GenerateErrorMessages(err, "id"), nil)
		return
	}

	templateName := ctx.Query("template")
	tmpl, err := bc.app.Templates.Get(templateName)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Please select a valid template first", util.GenerateErrorMessages(batch.ErrNoTemplateSelected, "template"), nil)
		return
	}

	recipient, ok := bc.findRecipient(id)
	if !ok {
		util.ResponseFailed(ctx, http.StatusNotFound, "Recipient not found", util.GenerateErrorMessages(batch.ErrRecipientNotFound, "id"), nil)
		return
	}

	img, err := bc.app.Compositor.Render(tmpl.ImageData, tmpl.RenderRequest(), recipient.Name)
	if err != nil {
		bc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusUnprocessableEntity, "Failed to render certificate", util.GenerateErrorMessages(err), nil)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", util.CertificateFileName(recipient.Name)))
	ctx.Data(http.StatusOK, "image/png", img)
}

func (bc BatchController) findRecipient(id int) (batch.Recipient, bool) {
	for _, r := range bc.app.Batch.Pending() {
		if r.ID == id {
			return r, true
		}
	}
	for _, r := range bc.app.Batch.Sent() {
		if r.ID == id {
			return r, true
		}
	}
	return batch.Recipient{}, false
}
