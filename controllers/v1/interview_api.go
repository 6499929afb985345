package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"hr-pipeline/controllers"
	"hr-pipeline/lib/interview"
	apimodels "hr-pipeline/models/api"
	interviewapimodels "hr-pipeline/models/api/interview"
)

type interviewApiController struct {
	controllers.BaseAPIController
}

func InitInterviewRouters(app fiber.Router) {
	controller := interviewApiController{}
	app.Route("interview", func(router fiber.Router) {
		router.Post("open", controller.open)
		router.Put("", controller.update)
		router.Post("submit", controller.submit)
		router.Delete("", controller.close)
	})
	app.Get("teams", controller.teams)
}

// @Summary Открыть приглашение
// @Tags Интервью
// @Description Открывает форму приглашения на интервью, другие формы закрываются
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   email          	query    string  	true         "applicant email"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.ScheduleFormView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/interview/open [post]
func (c *interviewApiController) open(ctx *fiber.Ctx) error {
	email, err := c.GetQuery(ctx, "email")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := interview.Instance.Open(c.RequestContext(ctx, email), c.GetSession(ctx), email)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка открытия формы")
	}
	return c.SendOK(ctx, view)
}

// @Summary Изменить приглашение
// @Tags Интервью
// @Description Изменение полей формы, ошибка проверки возвращается и сохраняется в форме
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 interviewapimodels.ScheduleDraftPatch	true	"request body"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.ScheduleDraft}
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/interview [put]
func (c *interviewApiController) update(ctx *fiber.Ctx) error {
	var payload interviewapimodels.ScheduleDraftPatch
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	draft, err := interview.Instance.Update(c.GetSession(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения формы")
	}
	return c.SendOK(ctx, draft)
}

// @Summary Отправить приглашение
// @Tags Интервью
// @Description Проверка формы и отправка приглашения кандидату
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @router /api/v1/interview/submit [post]
func (c *interviewApiController) submit(ctx *fiber.Ctx) error {
	sess := c.GetSession(ctx)
	if err := interview.Instance.Submit(c.RequestContext(ctx, sess.ActiveDraft().ApplicantEmail), sess); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отправки приглашения")
	}
	return c.SendOK(ctx, nil)
}

// @Summary Закрыть приглашение
// @Tags Интервью
// @Description Черновик приглашения удаляется
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @router /api/v1/interview [delete]
func (c *interviewApiController) close(ctx *fiber.Ctx) error {
	interview.Instance.Close(c.GetSession(ctx))
	return c.SendOK(ctx, nil)
}

// @Summary Команды
// @Tags Интервью
// @Description Справочник команд открытой формы приглашения, пока идет загрузка - пустой список
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]interviewapimodels.Team}
// @Failure 409 {object} apimodels.Response
// @router /api/v1/teams [get]
func (c *interviewApiController) teams(ctx *fiber.Ctx) error {
	view, err := interview.Instance.Form(c.GetSession(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка команд")
	}
	return c.SendOK(ctx, view.Teams)
}
