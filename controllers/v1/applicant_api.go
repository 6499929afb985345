package apiv1

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"hr-pipeline/controllers"
	actionhistoryhandler "hr-pipeline/lib/action-history"
	"hr-pipeline/lib/applicant"
	xlsexport "hr-pipeline/lib/export/xls"
	"hr-pipeline/lib/review"
	"hr-pipeline/lib/status"
	"hr-pipeline/models"
	apimodels "hr-pipeline/models/api"
	applicantapimodels "hr-pipeline/models/api/applicant"
)

type applicantApiController struct {
	controllers.BaseAPIController
}

func InitApplicantRouters(app fiber.Router) {
	controller := applicantApiController{}
	app.Route("applicants", func(router fiber.Router) {
		router.Get("", controller.pipeline)
		router.Post("reload", controller.reload)
		router.Get("export", controller.export)
		router.Put("status", controller.changeStatus)
		router.Get("statuses", controller.statuses)
		router.Get("details", controller.details)
	})
	app.Get("history", controller.history)
}

// @Summary Воронка
// @Tags Кандидаты
// @Description Кандидаты выбранной вакансии по вкладкам воронки
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=applicantapimodels.PipelineView}
// @Failure 401 {object} apimodels.Response
// @router /api/v1/applicants [get]
func (c *applicantApiController) pipeline(ctx *fiber.Ctx) error {
	sess := c.GetSession(ctx)
	return c.SendOK(ctx, applicant.Instance.PipelineView(c.RequestContext(ctx, ""), sess))
}

// @Summary Перезагрузка кандидатов
// @Tags Кандидаты
// @Description Полная перезагрузка кандидатов выбранной вакансии
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=applicantapimodels.PipelineView}
// @Failure 401 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @router /api/v1/applicants/reload [post]
func (c *applicantApiController) reload(ctx *fiber.Ctx) error {
	sess := c.GetSession(ctx)
	jobID := sess.SelectedJobID()
	rCtx := c.RequestContext(ctx, jobID)
	if err := applicant.Instance.LoadApplicants(rCtx, sess, jobID); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки кандидатов")
	}
	return c.SendOK(ctx, applicant.Instance.PipelineView(rCtx, sess))
}

// @Summary Выгрузка воронки
// @Tags Кандидаты
// @Description XLSX, лист на каждую вкладку воронки
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applicants/export [get]
func (c *applicantApiController) export(ctx *fiber.Ctx) error {
	sess := c.GetSession(ctx)
	if sess.SelectedJobID() == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("Please select a job first"))
	}
	view := applicant.Instance.PipelineView(c.RequestContext(ctx, ""), sess)
	buf, err := xlsexport.Instance.ExportPipeline(view)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки кандидатов")
	}
	fileName := fmt.Sprintf("pipeline_%s_%s.xlsx", view.JobID, time.Now().Format("2006-01-02"))
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

// @Summary Смена статуса
// @Tags Кандидаты
// @Description Смена статуса кандидата. ask_for_review открывает форму запроса на ревью вместо смены статуса
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 applicantapimodels.StatusChangeRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=applicantapimodels.PipelineView}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @router /api/v1/applicants/status [put]
func (c *applicantApiController) changeStatus(ctx *fiber.Ctx) error {
	var payload applicantapimodels.StatusChangeRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка смены статуса")
	}
	sess := c.GetSession(ctx)
	if payload.IsAskForReview() {
		draft, err := review.Instance.Open(sess, payload.Email)
		if err != nil {
			return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка открытия формы")
		}
		return c.SendOK(ctx, draft)
	}
	rCtx := c.RequestContext(ctx, payload.Email)
	err := status.Instance.SetStatus(rCtx, sess, payload.Email, sess.SelectedJobID(), models.ApplicantStatus(payload.Status))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка смены статуса")
	}
	return c.SendOK(ctx, applicant.Instance.PipelineView(rCtx, sess))
}

// @Summary Доступные статусы
// @Tags Кандидаты
// @Description Статусы, в которые можно перевести кандидата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   email          	query    string  	true         "applicant email"
// @Success 200 {object} apimodels.Response{data=[]string}
// @Failure 404 {object} apimodels.Response
// @router /api/v1/applicants/statuses [get]
func (c *applicantApiController) statuses(ctx *fiber.Ctx) error {
	email, err := c.GetQuery(ctx, "email")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	item, ok := c.GetSession(ctx).FindApplicant(email)
	if !ok {
		return c.SendError(ctx, c.GetLogger(ctx), models.ErrApplicantNotFound, "")
	}
	return c.SendOK(ctx, status.Instance.AllowedTransitions(item.Status))
}

// @Summary Дополнительная информация
// @Tags Кандидаты
// @Description Дополнительная информация кандидата, разобранная на секции
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   email          	query    string  	true         "applicant email"
// @Success 200 {object} apimodels.Response{data=[]applicant.DetailSection}
// @Failure 404 {object} apimodels.Response
// @router /api/v1/applicants/details [get]
func (c *applicantApiController) details(ctx *fiber.Ctx) error {
	email, err := c.GetQuery(ctx, "email")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	item, ok := c.GetSession(ctx).FindApplicant(email)
	if !ok {
		return c.SendError(ctx, c.GetLogger(ctx), models.ErrApplicantNotFound, "")
	}
	return c.SendOK(ctx, applicant.FormatDetails(item.GetAdditionalDetails()))
}

// @Summary История действий
// @Tags Кандидаты
// @Description Журнал действий организации по кандидату
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   email          	query    string  	true         "applicant email"
// @Success 200 {object} apimodels.Response{data=[]applicantapimodels.ActionHistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/history [get]
func (c *applicantApiController) history(ctx *fiber.Ctx) error {
	email, err := c.GetQuery(ctx, "email")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := actionhistoryhandler.Instance.List(c.GetSession(ctx), email)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения истории действий")
	}
	return c.SendOK(ctx, list)
}
