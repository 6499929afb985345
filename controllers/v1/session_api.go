package apiv1

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"hr-pipeline/config"
	"hr-pipeline/controllers"
	"hr-pipeline/lib/session"
	authutils "hr-pipeline/lib/utils/auth-utils"
	"hr-pipeline/middleware"
	apimodels "hr-pipeline/models/api"
	sessionapimodels "hr-pipeline/models/api/session"
)

type sessionApiController struct {
	controllers.BaseAPIController
}

// InitSessionRouters вход без токена сессии, выход под токеном
func InitSessionRouters(app fiber.Router, authHandlers ...fiber.Handler) {
	controller := sessionApiController{}
	app.Route("session", func(router fiber.Router) {
		router.Post("", controller.login)
		router.Delete("", append(authHandlers, controller.logout)...)
	})
}

// @Summary Вход
// @Tags Сессия
// @Description Создание сессии по данным организации и токенам внешней системы
// @Param	body body	 sessionapimodels.LoginRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=sessionapimodels.LoginResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/session [post]
func (c *sessionApiController) login(ctx *fiber.Ctx) error {
	var payload sessionapimodels.LoginRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	sess := session.Instance.Create(payload)
	ttl := time.Duration(config.Conf.Auth.JWTExpireInSec) * time.Second
	token, err := authutils.GetToken(sess.ID(), sess.UserName(), config.Conf.Auth.JWTSecret, ttl)
	if err != nil {
		session.Instance.Delete(sess.ID())
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания сессии")
	}
	return c.SendOK(ctx, sessionapimodels.LoginResponse{
		SessionID: sess.ID(),
		Token:     token,
	})
}

// @Summary Выход
// @Tags Сессия
// @Description Завершение сессии, websocket закрывается
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @router /api/v1/session [delete]
func (c *sessionApiController) logout(ctx *fiber.Ctx) error {
	sess := middleware.GetSession(ctx)
	session.Instance.Delete(sess.ID())
	c.GetLogger(ctx).Info("сессия завершена пользователем")
	return c.SendOK(ctx, nil)
}
