package echoapi

import (
	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/learnifyhq/learnify/core"
	"github.com/learnifyhq/learnify/core/user"
)

var tokenContextKey = "userToken"

// Claims is the subset of the identity provider's token this API consumes.
// The provider owns authentication; only the external uid and profile hints
// are read here.
type Claims struct {
	jwt.StandardClaims
	UID   string `json:"uid,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// userUID falls back on the standard subject when no uid claim is present.
func (c *Claims) userUID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
// Production tokens come from the identity provider; this exists for tests
// and local tooling.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUID(ctx echo.Context) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", err
	}
	if uid := claims.userUID(); uid != "" {
		return uid, nil
	}
	return "", errUnauthorized
}

// roleMiddleware authorizes against the role currently stored for the caller,
// not the one baked into the token; a mid-session promotion or demotion takes
// effect on the next request.
func roleMiddleware(svc *user.Service, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			uid, err := getContextUID(ctx)
			if err != nil {
				return err
			}
			role, err := svc.GetRoleByUID(ctx.Request().Context(), uid)
			if err != nil {
				if errors.Cause(err) == user.ErrNotFound {
					return errHttpForbidden
				}
				return errors.Wrap(err, "getting caller role")
			}
			for _, r := range roles {
				if r == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

func adminMiddleware(svc *user.Service) echo.MiddlewareFunc {
	return roleMiddleware(svc, user.RoleAdmin)
}

func teacherMiddleware(svc *user.Service) echo.MiddlewareFunc {
	return roleMiddleware(svc, user.RoleTeacher, user.RoleAdmin)
}
