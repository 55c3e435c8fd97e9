package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
)

var errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "Access Denied")

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that renders every error as
// {"message": ...}, plus the field errors of a *core.ValidationError under "errors".
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code := http.StatusInternalServerError
		body := echo.Map{}

		var vErr *core.ValidationError
		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
				origErr = herr
			}
			code = origErr.Code
			body["message"] = origErr.Message
		default:
			switch {
			case errors.As(err, &vErr):
				code = http.StatusBadRequest
				body["message"] = vErr.Error()
				if len(vErr.Fields) > 0 {
					fldErrs := make(map[string]string, len(vErr.Fields))
					for _, fErr := range vErr.Fields {
						fldErrs[fErr.Field] = fErr.Error
					}
					body["errors"] = fldErrs
				}
			case errors.Is(err, errNotFound):
				code = http.StatusNotFound
				body["message"] = err.Error()
			default: // any other error is a server error
				msg := http.StatusText(http.StatusInternalServerError)
				body["message"] = msg
				if acc, ok := ctx.Get(contextAccountKey).(Account); ok {
					logger.Error(msg, errors.Wrap(err, msg), map[string]interface{}{"username": acc.Username})
				} else {
					logger.Error(msg, errors.Wrap(err, msg))
				}
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, body)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
