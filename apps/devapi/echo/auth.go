package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core/session"
)

const contextAccountKey = "account"

type registerRequest struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	Role     string `json:"role"`
}

// basicAuth verifies HTTP Basic credentials on every request and keeps the Account in the context.
func basicAuth(db *DB) echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Realm: "registrar",
		Validator: func(username, password string, ctx echo.Context) (bool, error) {
			acc, ok := db.Authenticate(username, password)
			if ok {
				ctx.Set(contextAccountKey, acc)
			}
			return ok, nil
		},
	})
}

func getContextAccount(ctx echo.Context) (Account, error) {
	if acc, ok := ctx.Get(contextAccountKey).(Account); ok {
		return acc, nil
	}
	return Account{}, echo.ErrUnauthorized
}

func roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			acc, err := getContextAccount(ctx)
			if err != nil {
				return err
			}
			for _, role := range roles {
				for _, r := range acc.Roles {
					if r == role {
						return next(ctx)
					}
				}
			}
			return errHttpForbidden
		}
	}
}

var (
	adminOnly   = roleMiddleware(session.RoleAdmin)
	studentOnly = roleMiddleware(session.RoleStudent)
)

func (s *server) registerAuthAPI(g *echo.Group, basic echo.MiddlewareFunc) {
	ag := g.Group("/auth")
	ag.POST("/register", s.register)
	ag.POST("/login", login, basic)
	ag.GET("/me", me, basic)

	g.POST("/logout", logout)
	if s.opts.ProfileEndpoint {
		g.GET("/users/me", profile, basic)
	}
}

func (s *server) register(ctx echo.Context) error {
	var data registerRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to registerRequest")
	}
	data.Username = strings.TrimSpace(data.Username)
	if err := s.validateStruct(data); err != nil {
		return err
	}

	role := strings.ToUpper(strings.TrimSpace(data.Role))
	switch role {
	case "":
		role = "STUDENT"
	case "ADMIN", "STUDENT":
	default:
		return ctx.String(http.StatusBadRequest, "Error: Role not found.")
	}

	if _, err := s.opts.DB.CreateAccount(data.Username, data.Password, role); err != nil {
		if errors.Is(err, errUsernameTaken) {
			return ctx.String(http.StatusBadRequest, "Error: Username is already taken!")
		}
		return errors.Wrap(err, "creating account")
	}
	return ctx.String(http.StatusOK, "User registered successfully!")
}

func login(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Login successful")
}

func me(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "You are authenticated")
}

func logout(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Logged out")
}

func profile(ctx echo.Context) error {
	acc, err := getContextAccount(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, session.Principal{ID: acc.ID, Username: acc.Username, Roles: acc.Roles})
}
