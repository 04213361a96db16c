package jwtPkg

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const RoleAdmin = "admin"

var (
	ErrMissingToken  = errors.New("empty Authorization header")
	ErrInvalidFormat = errors.New("invalid Authorization format")
	ErrNotAdmin      = errors.New("token does not carry the admin role")
)

func Sign(secret string, data map[string]interface{}, expiresIn time.Duration) (string, int64, error) {
	if secret == "" {
		return "", 0, fmt.Errorf("signing secret not set")
	}

	expiredAt := time.Now().Add(expiresIn).Unix()

	claims := jwt.MapClaims{}
	for k, v := range data {
		claims[k] = v
	}
	claims["exp"] = expiredAt

	logrus.WithField("claims", claims).Debug("Creating token with claims")

	to := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := to.SignedString([]byte(secret))
	if err != nil {
		logrus.WithError(err).Error("Failed to sign token")
		return "", 0, err
	}

	return accessToken, expiredAt, nil
}

func SignAdmin(secret, subject string, expiresIn time.Duration) (string, int64, error) {
	return Sign(secret, map[string]interface{}{
		"sub":  subject,
		"role": RoleAdmin,
	}, expiresIn)
}

func VerifyTokenHeader(c *fiber.Ctx, secret string) (*jwt.Token, error) {
	log := logrus.WithField("func", "VerifyTokenHeader")

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		log.Debug("Empty Authorization header")
		return nil, ErrMissingToken
	}

	accessToken, found := strings.CutPrefix(header, "Bearer ")
	accessToken = strings.TrimSpace(accessToken)
	if !found || accessToken == "" {
		log.Debug("Invalid Authorization format")
		return nil, ErrInvalidFormat
	}

	token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			log.WithField("method", token.Header["alg"]).Warn("Unexpected signing method")
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		log.WithError(err).Debug("Failed to parse JWT token")
		return nil, err
	}

	return token, nil
}

// VerifyAdmin checks the bearer token and requires role=admin.
func VerifyAdmin(c *fiber.Ctx, secret string) (jwt.MapClaims, error) {
	token, err := VerifyTokenHeader(c, secret)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrNotAdmin
	}

	if role, _ := claims["role"].(string); role != RoleAdmin {
		return nil, ErrNotAdmin
	}

	return claims, nil
}
