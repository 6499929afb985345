package authutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	ClaimSession = "session"
	ClaimName    = "name"
)

// GetToken токен локальной сессии рекрутера
func GetToken(sessionID, userName, secret string, ttl time.Duration) (tokenString string, err error) {
	claims := jwt.MapClaims{
		ClaimName:    userName,
		"sub":        sessionID,
		ClaimSession: sessionID,
		"exp":        time.Now().Add(ttl).Unix(),
		"iat":        time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}

func GetSessionID(ctx *fiber.Ctx) string {
	sessionID, _ := GetClaims(ctx)[ClaimSession].(string)
	return sessionID
}

// IsTokenExpired проверяет exp токена внешней системы без проверки подписи.
// Токен без exp или нечитаемый считается живым, решение примет сервер по 401
func IsTokenExpired(tokenString string, now time.Time) bool {
	if tokenString == "" {
		return true
	}
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

func ParseSessionToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", errors.Wrap(err, "невалидный токен")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("невалидные claims")
	}
	sessionID, _ := claims[ClaimSession].(string)
	if sessionID == "" {
		return "", errors.New("в токене нет сессии")
	}
	return sessionID, nil
}
