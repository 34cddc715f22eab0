package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/sudais-khan12/LMS-sub002/core"
)

var (
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "authentication failed")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
)

type errorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, resp := httpError(err, translator)

		if code == http.StatusInternalServerError {
			var extra map[string]interface{}
			if actor, ok := contextActor(ctx); ok {
				extra = map[string]interface{}{"userId": actor.UserID, "role": actor.Role}
			}
			msg := http.StatusText(code)
			logger.Error(msg, errors.Wrap(err, ctx.Request().Method+" "+ctx.Path()), extra)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
			if ctx.Echo().Debug {
				resp.Error = err.Error()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, resp)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// httpError maps err to a status code and the error envelope.
func httpError(err error, translator ut.Translator) (int, errorResponse) {
	switch origErr := errors.Cause(err).(type) {
	case *echo.HTTPError:
		if origErr.Internal != nil {
			if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
				origErr = herr
			}
		}
		// the JWT middleware wraps ErrJWTMissing, a 400, around extraction failures
		if origErr == middleware.ErrJWTMissing || origErr.Message == middleware.ErrJWTMissing.Message {
			return http.StatusUnauthorized, errorResponse{Error: message(origErr.Message)}
		}
		return origErr.Code, errorResponse{Error: message(origErr.Message)}
	case validator.ValidationErrors:
		fldErrs := make(map[string]string, len(origErr))
		for _, vErr := range origErr {
			fldErrs[vErr.Field()] = vErr.Translate(translator)
		}
		return http.StatusBadRequest, errorResponse{Error: "validation failed", Details: fldErrs}
	case *core.ValidationError:
		resp := errorResponse{Error: origErr.Error()}
		if len(origErr.Fields) > 0 {
			resp.Details = make(map[string]string, len(origErr.Fields))
			for _, fErr := range origErr.Fields {
				resp.Details[fErr.Field] = fErr.Error
			}
			if origErr.Err == nil {
				resp.Error = "validation failed"
			}
		}
		return http.StatusBadRequest, resp
	case *core.NotFoundError:
		return http.StatusNotFound, errorResponse{Error: origErr.Error()}
	case *core.ConflictError:
		return http.StatusConflict, errorResponse{Error: origErr.Error()}
	}

	switch errors.Cause(err) {
	case core.ErrUnauthenticated:
		return http.StatusUnauthorized, errorResponse{Error: core.ErrUnauthenticated.Error()}
	case core.ErrForbidden:
		return http.StatusForbidden, errorResponse{Error: core.ErrForbidden.Error()}
	}
	return http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)}
}

func message(m interface{}) string {
	if s, ok := m.(string); ok {
		return s
	}
	return http.StatusText(http.StatusInternalServerError)
}
