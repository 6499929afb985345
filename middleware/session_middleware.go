package middleware

import (
	"github.com/gofiber/fiber/v2"
	"hr-pipeline/fiberlog"
	"hr-pipeline/lib/session"
	authutils "hr-pipeline/lib/utils/auth-utils"
	"hr-pipeline/models"
	apimodels "hr-pipeline/models/api"
)

const sessionLocal = "session"

// SessionRequired после Authorization: сессия из токена должна быть жива
func SessionRequired(registry session.Provider) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sessionID := authutils.GetSessionID(ctx)
		sess, ok := registry.Get(sessionID)
		if !ok || sess.IsExpired() {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(models.ErrSessionExpired.Error()))
		}
		sess.Touch()
		ctx.Locals(sessionLocal, sess)
		ctx.Locals(fiberlog.TagSession, sess.ID())
		return ctx.Next()
	}
}

func GetSession(ctx *fiber.Ctx) *session.Session {
	sess, _ := ctx.Locals(sessionLocal).(*session.Session)
	return sess
}
