package middleware

import (
	"ComputexChatbot/pkg/handlerUtil"
	jwtPkg "ComputexChatbot/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const AdminSubjectKey = "admin_subject"

type adminGuard struct {
	secret string
}

func newAdminGuard(secret string) *adminGuard {
	return &adminGuard{
		secret: secret,
	}
}

// NewAdminTokenMiddleware requires an HS256 bearer token with role=admin
// when an admin secret is configured.
func (m *middleware) NewAdminTokenMiddleware(ctx *fiber.Ctx) error {
	if m.admin.secret == "" {
		return ctx.Next()
	}

	requestID := m.GetRequestID(ctx)

	claims, err := jwtPkg.VerifyAdmin(ctx, m.admin.secret)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"client_ip":  ctx.IP(),
			"error":      err.Error(),
		}).Warn("Admin token rejected")
		return handlerUtil.New(m.log).HandleUnauthorized(ctx, requestID, "Unauthorized, admin token invalid or expired")
	}

	subject, _ := claims["sub"].(string)
	ctx.Locals(AdminSubjectKey, subject)

	m.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"subject":    subject,
	}).Debug("Admin token accepted")

	return ctx.Next()
}
