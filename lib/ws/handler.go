package ws

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	wsclient "hr-pipeline/lib/ws/client"
	connectionhub "hr-pipeline/lib/ws/connection-hub"
	"hr-pipeline/middleware"
)

func InitWs(router fiber.Router) {
	router.Use("", func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		ctx.Locals("sessionID", middleware.GetSession(ctx).ID())
		return ctx.Next()
	})
	router.Get("/", websocket.New(notifyHandler))
}

// @Summary Уведомления сессии
// @Tags Websocket
// @Description Уведомления о результатах действий и о завершении сессии
// @Param   Authorization		header		string		true		"Authorization token"
// @Success 200 {object} wsmodels.ServerMessage
// @Failure 400
// @Failure 401
// @Failure 500
// @router /api/v1/ws [get]
func notifyHandler(c *websocket.Conn) {
	sessionID, _ := c.Locals("sessionID").(string)
	client := wsclient.NewClient(sessionID, c)
	connectionhub.Instance.AddClient(sessionID, c)
	defer func() {
		connectionhub.Instance.DeleteClient(sessionID, c)
	}()
	client.Dispatch()
}
