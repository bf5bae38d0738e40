// Package middleware provides the request pipeline stages shared by all routes.
package middleware

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/policy"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// Messages returned by the authenticate stage.
const (
	MsgAuthRequired  = "Authorization required"
	MsgInvalidToken  = "Invalid token"
	MsgTokenExpired  = "Token expired"
	MsgNotAuthorized = "Not authorized"
	MsgForbidden     = "You do not have permission to perform this action"
)

// UserLookup resolves the subject of a verified token.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// PrincipalFrom returns the authenticated principal of the request.
func PrincipalFrom(c *fiber.Ctx) (auth.Principal, bool) {
	p, ok := c.Locals(principalKey).(auth.Principal)
	return p, ok
}

func unauthorized(c *fiber.Ctx, reason, msg string) error {
	AuthFailures.WithLabelValues(reason).Inc()
	return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(msg))
}

// Authenticate verifies the bearer token and loads its user as the request principal.
func Authenticate(tokens *auth.TokenService, users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return unauthorized(c, "missing_token", MsgAuthRequired)
		}

		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			return unauthorized(c, "malformed_header", MsgInvalidToken)
		}

		claims, err := tokens.Verify(strings.TrimSpace(raw))
		if errors.Is(err, auth.ErrTokenExpired) {
			return unauthorized(c, "expired_token", MsgTokenExpired)
		}
		if err != nil {
			return unauthorized(c, "invalid_token", MsgInvalidToken)
		}
		userID, err := claims.UserID()
		if err != nil {
			return unauthorized(c, "invalid_subject", MsgInvalidToken)
		}

		user, err := users.GetByID(c.UserContext(), userID)
		if models.HasCode(err, models.CodeNotFound) {
			return unauthorized(c, "unknown_user", MsgNotAuthorized)
		}
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}

		c.Locals(principalKey, auth.PrincipalOf(user))
		c.SetUserContext(WithUserID(c.UserContext(), user.ID))
		return c.Next()
	}
}

// RequireRole lets the request through only if the principal's role allows action.
func RequireRole(action policy.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return unauthorized(c, "missing_principal", MsgAuthRequired)
		}
		if !policy.Allowed(p.Role, action) {
			return forbidden(c, action)
		}
		return c.Next()
	}
}

// ResourceLoader fetches the resource a route acts on.
type ResourceLoader func(c *fiber.Ctx) (policy.Ownable, error)

// RequireOwnerOrRole loads the target resource and lets the request through
// if the principal owns it or the role allows action. Lookup failures are
// reported with their own status, so a missing resource stays a 404.
func RequireOwnerOrRole(action policy.Action, load ResourceLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return unauthorized(c, "missing_principal", MsgAuthRequired)
		}
		resource, err := load(c)
		if err != nil {
			return models.RespondWithError(c, models.HTTPStatus(err), err)
		}
		if !policy.CanActOn(p.ID, p.Role, action, resource) {
			return forbidden(c, action)
		}
		return c.Next()
	}
}

func forbidden(c *fiber.Ctx, action policy.Action) error {
	AccessDenied.WithLabelValues(string(action)).Inc()
	Logger.WarnContext(c.UserContext(), "access denied", "action", string(action), "path", c.Path())
	return models.RespondWithError(c, fiber.StatusForbidden, models.NewForbiddenError(MsgForbidden))
}
