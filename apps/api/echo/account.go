package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/user"
)

type accountApi struct {
	base
	conf     *core.Config
	users    *user.Service
	profiles profiles
}

func registerAuthAPI(g *echo.Group, authed []echo.MiddlewareFunc, b base, deps ServerDeps) {
	api := accountApi{
		base:     b,
		conf:     deps.Conf,
		users:    deps.UserSvc,
		profiles: profiles{teachers: deps.TeacherSvc, students: deps.StudentSvc},
	}

	// un-authed endpoints
	// TODO: rate limit `/password-reset` & `/password-reset-confirm`
	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/password-reset", api.resetPassword)
	ag.POST("/password-reset-confirm", api.confirmPasswordReset)
	ag.POST("/token-refresh", api.refreshToken, authed[0])

	g.GET("/me", api.me, authed...)
	g.PUT("/me", api.updateMe, authed...)
}

func (api *accountApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := authenticate(ctx.Request().Context(), api.conf, data.Login, data.Password, api.users, api.profiles)
	if err != nil {
		return err
	}
	token, err := GenerateToken(api.conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return respond(ctx, http.StatusOK, LoginResponse{Token: token, Role: claims.Role})
}

func (api *accountApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.conf, api.users, api.profiles)
	if err != nil {
		return err
	}
	claims, _ := getContextClaims(ctx)
	return respond(ctx, http.StatusOK, LoginResponse{Token: token, Role: claims.Role})
}

func (api *accountApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.users.RequestPasswordReset(ctx.Request().Context(), data.Email); err != nil && !core.IsNotFound(err) {
		// do not return errors to attackers
		api.logger.Error("requesting password reset", err)
	}
	return respond(ctx, http.StatusOK, messageResponse{
		Message: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *accountApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.users.ResetPassword(ctx.Request().Context(), data); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, messageResponse{Message: "Password has been reset with the new password."})
}

func (api *accountApi) me(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return err
	}
	usr, err := api.users.GetByID(ctx.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, MeResponse{User: usr, TeacherID: actor.TeacherID, StudentID: actor.StudentID})
}

// updateMe lets any user change their own name and password.
func (api *accountApi) updateMe(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return err
	}
	var data UpdateMe
	if err := bind(ctx, &data); err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	usr, err := api.users.GetByID(rctx, actor.UserID)
	if err != nil {
		return err
	}
	uu := user.UpdateUser{Name: data.Name, Password: data.Password, PasswordConfirm: data.PasswordConfirm}
	if err := uu.Validate(usr, api.validate); err != nil {
		return err
	}
	if usr, err = api.users.Update(rctx, usr, uu); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, MeResponse{User: usr, TeacherID: actor.TeacherID, StudentID: actor.StudentID})
}

type (
	LoginRequest struct {
		// Login is a username or an email.
		Login    string `json:"login" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	MeResponse struct {
		user.User
		TeacherID string `json:"teacherId,omitempty"`
		StudentID string `json:"studentId,omitempty"`
	}

	UpdateMe struct {
		Name            string `json:"name"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"passwordConfirm"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Login = core.CleanString(lr.Login, true /* lower */)
	return validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate(validate *validator.Validate) error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return validate.Struct(pr)
}
