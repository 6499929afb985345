package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"hr-pipeline/config"
	apimodels "hr-pipeline/models/api"
)

func AuthorizationRequired() fiber.Handler {
	return Authorization(config.Conf.Auth.JWTSecret)
}

// Authorization токен сессии из заголовка, для websocket допускается query параметр token
func Authorization(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtware.HS256,
			Key:    []byte(secret),
		},
		TokenLookup: "header:Authorization,query:token",
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("Session token is missing or invalid"))
		},
	})
}
