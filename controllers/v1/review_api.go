package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"hr-pipeline/controllers"
	"hr-pipeline/lib/review"
	apimodels "hr-pipeline/models/api"
	reviewapimodels "hr-pipeline/models/api/review"
)

type reviewApiController struct {
	controllers.BaseAPIController
}

func InitReviewRouters(app fiber.Router) {
	controller := reviewApiController{}
	app.Route("review", func(router fiber.Router) {
		router.Post("open", controller.open)
		router.Put("", controller.setReviewer)
		router.Post("send", controller.send)
		router.Delete("", controller.close)
	})
}

// @Summary Открыть запрос на ревью
// @Tags Ревью
// @Description Открывает форму запроса на ревью, другие формы закрываются
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   email          	query    string  	true         "applicant email"
// @Success 200 {object} apimodels.Response{data=reviewapimodels.ReviewDraft}
// @Failure 404 {object} apimodels.Response
// @router /api/v1/review/open [post]
func (c *reviewApiController) open(ctx *fiber.Ctx) error {
	email, err := c.GetQuery(ctx, "email")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	draft, err := review.Instance.Open(c.GetSession(ctx), email)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка открытия формы")
	}
	return c.SendOK(ctx, draft)
}

// @Summary Ревьюер
// @Tags Ревью
// @Description Почта ревьюера
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 reviewapimodels.ReviewerData	true	"request body"
// @Success 200 {object} apimodels.Response{data=reviewapimodels.ReviewDraft}
// @Failure 409 {object} apimodels.Response
// @router /api/v1/review [put]
func (c *reviewApiController) setReviewer(ctx *fiber.Ctx) error {
	var payload reviewapimodels.ReviewerData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	draft, err := review.Instance.SetReviewer(c.GetSession(ctx), payload.ReviewerEmail)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения формы")
	}
	return c.SendOK(ctx, draft)
}

// @Summary Отправить запрос на ревью
// @Tags Ревью
// @Description Запрос на ревью и перевод кандидата в decision_pending_review. Ошибка смены статуса возвращается текстом в message
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=reviewapimodels.ReviewResult}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @router /api/v1/review/send [post]
func (c *reviewApiController) send(ctx *fiber.Ctx) error {
	sess := c.GetSession(ctx)
	result, err := review.Instance.Send(c.RequestContext(ctx, sess.ActiveDraft().ApplicantEmail), sess)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отправки запроса на ревью")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessageResponse(result.Message, result))
}

// @Summary Закрыть запрос на ревью
// @Tags Ревью
// @Description Черновик запроса удаляется
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @router /api/v1/review [delete]
func (c *reviewApiController) close(ctx *fiber.Ctx) error {
	review.Instance.Close(c.GetSession(ctx))
	return c.SendOK(ctx, nil)
}
