package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"hr-pipeline/controllers"
	filestorage "hr-pipeline/lib/file-storage"
	apimodels "hr-pipeline/models/api"
)

type filesApiController struct {
	controllers.BaseAPIController
}

func InitFilesRouters(app fiber.Router) {
	controller := filesApiController{}
	app.Route("files", func(router fiber.Router) {
		router.Get("url", controller.url)
	})
}

// @Summary Ссылка на файл
// @Tags Файлы
// @Description Ссылка на резюме или запись интервью. Абсолютные ссылки возвращаются как есть
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   path          	query    string  	true         "stored path or url"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/files/url [get]
func (c *filesApiController) url(ctx *fiber.Ctx) error {
	path, err := c.GetQuery(ctx, "path")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	link, err := filestorage.Instance.ResolveURL(ctx.UserContext(), path)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения ссылки на файл")
	}
	return c.SendOK(ctx, link)
}
