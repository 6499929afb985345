package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"hr-pipeline/controllers"
	"hr-pipeline/lib/applicant"
	"hr-pipeline/lib/jobs"
	"hr-pipeline/models"
)

type jobsApiController struct {
	controllers.BaseAPIController
}

func InitJobsRouters(app fiber.Router) {
	controller := jobsApiController{}
	app.Route("jobs", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Put("select", controller.selectJob)
	})
}

// @Summary Список вакансий
// @Tags Вакансии
// @Description Открытые и текущие вакансии одним списком, ошибка одного источника не прерывает загрузку
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]jobapimodels.Job}
// @Failure 401 {object} apimodels.Response
// @router /api/v1/jobs [get]
func (c *jobsApiController) list(ctx *fiber.Ctx) error {
	sess := c.GetSession(ctx)
	list := jobs.Instance.LoadJobs(c.RequestContext(ctx, ""), sess)
	if sess.IsExpired() {
		return c.SendError(ctx, c.GetLogger(ctx), models.ErrSessionExpired, "Ошибка загрузки вакансий")
	}
	return c.SendOK(ctx, list)
}

// @Summary Выбор вакансии
// @Tags Вакансии
// @Description Смена выбранной вакансии и загрузка ее кандидатов. Пустой job_id снимает выбор
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   job_id          	query    string  	false         "job ID"
// @Success 200 {object} apimodels.Response{data=applicantapimodels.PipelineView}
// @Failure 401 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @router /api/v1/jobs/select [put]
func (c *jobsApiController) selectJob(ctx *fiber.Ctx) error {
	sess := c.GetSession(ctx)
	jobID := ctx.Query("job_id")
	rCtx := c.RequestContext(ctx, jobID)
	if err := applicant.Instance.SelectJob(rCtx, sess, jobID); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки кандидатов")
	}
	return c.SendOK(ctx, applicant.Instance.PipelineView(rCtx, sess))
}
