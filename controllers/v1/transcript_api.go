package apiv1

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"hr-pipeline/controllers"
	"hr-pipeline/lib/transcript"
	"hr-pipeline/lib/utils/helpers"
	apimodels "hr-pipeline/models/api"
)

type transcriptApiController struct {
	controllers.BaseAPIController
	transcripts transcript.Provider
}

func InitTranscriptRouters(app fiber.Router, transcripts transcript.Provider) {
	controller := transcriptApiController{transcripts: transcripts}
	app.Route("transcript/:feedback_id", func(router fiber.Router) {
		router.Get("", controller.get)
		router.Get("export", controller.export)
	})
}

// @Summary Транскрипт AI интервью
// @Tags Транскрипт
// @Description Реплики интервью и оценка
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   feedback_id          path    string  	true         "feedback ID"
// @Success 200 {object} apimodels.Response{data=transcriptapimodels.TranscriptRecord}
// @Failure 401 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @router /api/v1/transcript/{feedback_id} [get]
func (c *transcriptApiController) get(ctx *fiber.Ctx) error {
	feedbackID := ctx.Params("feedback_id")
	record, err := c.transcripts.LoadTranscript(c.RequestContext(ctx, feedbackID), c.GetSession(ctx), feedbackID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки транскрипта")
	}
	return c.SendOK(ctx, record)
}

// @Summary Выгрузка транскрипта
// @Tags Транскрипт
// @Description Транскрипт в txt или pdf
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   feedback_id          path    string  	true         "feedback ID"
// @Param   format          	query    string  	false         "txt|pdf"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @router /api/v1/transcript/{feedback_id}/export [get]
func (c *transcriptApiController) export(ctx *fiber.Ctx) error {
	feedbackID := ctx.Params("feedback_id")
	format := ctx.Query("format", "txt")
	if format != "txt" && format != "pdf" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("unsupported export format"))
	}
	record, err := c.transcripts.LoadTranscript(c.RequestContext(ctx, feedbackID), c.GetSession(ctx), feedbackID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки транскрипта")
	}
	fileName := fmt.Sprintf("transcript_%s.%s", helpers.FileNameSafe(feedbackID), format)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	if format == "txt" {
		ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return ctx.Status(fiber.StatusOK).SendString(transcript.ExportText(record))
	}
	body, err := transcript.ExportPDF(record)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки транскрипта")
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	return ctx.Status(fiber.StatusOK).Send(body)
}
