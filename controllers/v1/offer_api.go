package apiv1

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"hr-pipeline/controllers"
	"hr-pipeline/lib/offer"
	apimodels "hr-pipeline/models/api"
	offerapimodels "hr-pipeline/models/api/offer"
)

const offerFileField = "offer_letter"

type offerApiController struct {
	controllers.BaseAPIController
}

func InitOfferRouters(app fiber.Router) {
	controller := offerApiController{}
	app.Route("offer", func(router fiber.Router) {
		router.Post("open", controller.open)
		router.Post("file", controller.attachFile)
		router.Post("generate", controller.generate)
		router.Post("send", controller.send)
		router.Delete("", controller.close)
	})
}

// @Summary Открыть оффер
// @Tags Оффер
// @Description Открывает форму отправки оффера, другие формы закрываются
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   email          	query    string  	true         "applicant email"
// @Success 200 {object} apimodels.Response{data=offerapimodels.OfferDraft}
// @Failure 404 {object} apimodels.Response
// @router /api/v1/offer/open [post]
func (c *offerApiController) open(ctx *fiber.Ctx) error {
	email, err := c.GetQuery(ctx, "email")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	draft, err := offer.Instance.Open(c.GetSession(ctx), email)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка открытия формы")
	}
	return c.SendOK(ctx, draft)
}

// @Summary Файл оффера
// @Tags Оффер
// @Description Прикладывает файл письма-оффера (pdf, doc, docx)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   offer_letter	formData	file	true	"offer letter"
// @Success 200 {object} apimodels.Response{data=offerapimodels.OfferDraft}
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/offer/file [post]
func (c *offerApiController) attachFile(ctx *fiber.Ctx) error {
	header, err := ctx.FormFile(offerFileField)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(offerapimodels.ErrMsgFile))
	}
	file, err := header.Open()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка чтения файла")
	}
	defer file.Close()
	body, err := io.ReadAll(file)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка чтения файла")
	}
	if !offerapimodels.IsAcceptedFile(header.Filename) {
		c.GetLogger(ctx).WithField("file_name", header.Filename).Info("файл оффера с нестандартным расширением")
	}
	draft, err := offer.Instance.AttachFile(c.GetSession(ctx), header.Filename, header.Header.Get(fiber.HeaderContentType), body)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка сохранения файла")
	}
	return c.SendOK(ctx, draft)
}

// @Summary Сформировать оффер
// @Tags Оффер
// @Description Формирует письмо-оффер по шаблону и прикладывает его к форме
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=offerapimodels.OfferDraft}
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/offer/generate [post]
func (c *offerApiController) generate(ctx *fiber.Ctx) error {
	draft, err := offer.Instance.GenerateLetter(c.GetSession(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования оффера")
	}
	return c.SendOK(ctx, draft)
}

// @Summary Отправить оффер
// @Tags Оффер
// @Description Отправка письма-оффера кандидату
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @router /api/v1/offer/send [post]
func (c *offerApiController) send(ctx *fiber.Ctx) error {
	sess := c.GetSession(ctx)
	if err := offer.Instance.Send(c.RequestContext(ctx, sess.ActiveDraft().ApplicantEmail), sess); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отправки оффера")
	}
	return c.SendOK(ctx, nil)
}

// @Summary Закрыть оффер
// @Tags Оффер
// @Description Черновик оффера и выбранный файл удаляются
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @router /api/v1/offer [delete]
func (c *offerApiController) close(ctx *fiber.Ctx) error {
	offer.Instance.Close(c.GetSession(ctx))
	return c.SendOK(ctx, nil)
}
