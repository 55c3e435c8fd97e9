package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/registrar/core"
)

type (
	Options struct {
		Address         string
		DisableReqLogs  bool
		ProfileEndpoint bool // serve GET /api/users/me
		Debug           bool
		DB              *DB
		Logger          core.Logger
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts       *Options
		app        *echo.Echo
		validate   *validator.Validate
		translator ut.Translator
	}
)

var _ Server = (*server)(nil)

// NewServer returns the development stand-in for the registrar backend.
func NewServer(opts *Options) Server {
	validate, translator := core.NewValidator()
	s := &server{
		opts:       opts,
		app:        echo.New(),
		validate:   validate,
		translator: translator,
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	if !s.opts.Debug {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger)
	s.app.Debug = s.opts.Debug

	s.app.GET("/", home)

	api := s.app.Group("/api")
	basic := basicAuth(s.opts.DB)

	s.registerAuthAPI(api, basic)
	s.registerStudentAPI(api, basic)
	s.registerCourseAPI(api, basic)
	s.registerGradeAPI(api, basic)
	s.registerAttendanceAPI(api, basic)
}

func (s *server) Start() {
	if err := s.app.Start(s.opts.Address); err != nil && err != http.ErrServerClosed {
		s.app.Logger.Fatal(err)
	}
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) validateStruct(v interface{}) error {
	if err := s.validate.Struct(v); err != nil {
		return core.TranslateValidationErrors(err, s.translator)
	}
	return nil
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Registrar development API")
}
