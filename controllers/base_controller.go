package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"hr-pipeline/config"
	externalservices "hr-pipeline/lib/external-services"
	"hr-pipeline/lib/session"
	"hr-pipeline/middleware"
	"hr-pipeline/models"
	apimodels "hr-pipeline/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetSession(ctx *fiber.Ctx) *session.Session {
	return middleware.GetSession(ctx)
}

// RequestContext контекст вызовов внешней системы с данными для аудита.
// По умолчанию не отменяется при разрыве соединения клиента, устаревшие ответы отбрасываются по тегу загрузки
func (c *BaseAPIController) RequestContext(ctx *fiber.Ctx, recID string) context.Context {
	rCtx := ctx.UserContext()
	if config.Conf == nil || config.Conf.Remote.DetachRequests == nil || *config.Conf.Remote.DetachRequests {
		rCtx = context.WithoutCancel(rCtx)
	}
	sess := middleware.GetSession(ctx)
	if sess == nil {
		return rCtx
	}
	return externalservices.GetContextWithRecID(rCtx, sess.ID(), sess.Org().Email, recID)
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	entry := log.WithField("path", ctx.Path())
	if sess := middleware.GetSession(ctx); sess != nil {
		entry = entry.WithField("session_id", sess.ID())
	}
	return entry
}

func (c *BaseAPIController) GetQuery(ctx *fiber.Ctx, name string) (string, error) {
	value := ctx.Query(name)
	if value == "" {
		return "", errors.Errorf("не указан параметр %s", name)
	}
	return value, nil
}

// StatusCode код ответа для ошибки обработчика
func StatusCode(err error) int {
	switch {
	case models.IsValidationError(err):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrSessionExpired), errors.Is(err, models.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, models.ErrApplicantNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrUpdateInProgress), errors.Is(err, models.ErrDraftNotOpen):
		return fiber.StatusConflict
	case models.IsRemoteError(err):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// SendError ошибки из таксономии отдаются как есть, прочие логируются и заменяются defaultMsg
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, defaultMsg string) error {
	code := StatusCode(err)
	if code == fiber.StatusInternalServerError {
		logger.WithError(err).Error(defaultMsg)
		return ctx.Status(code).JSON(apimodels.NewError(defaultMsg))
	}
	return ctx.Status(code).JSON(apimodels.NewError(err.Error()))
}

func (c *BaseAPIController) SendOK(ctx *fiber.Ctx, data interface{}) error {
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(data))
}
