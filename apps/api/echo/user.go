package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/access"
	"github.com/sudais-khan12/LMS-sub002/core/user"
)

type userApi struct {
	base
	svc *user.Service
}

func (api *userApi) register(g *echo.Group) {
	ug := g.Group("/users")
	ug.GET("", api.query)
	ug.POST("", api.create)
	ug.GET("/:id", api.retrieve)
	ug.PUT("/:id", api.update)
	ug.DELETE("/:id", api.destroy)
}

func (api *userApi) create(ctx echo.Context) error {
	if err := api.guard(ctx, access.Create, access.KindUser); err != nil {
		return err
	}
	var data user.NewUser
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, usr)
}

func (api *userApi) query(ctx echo.Context) error {
	if err := api.guard(ctx, access.Read, access.KindUser); err != nil {
		return err
	}
	var filter user.QueryFilter
	if err := bind(ctx, &filter); err != nil {
		return err
	}
	filter.Clean()
	opts := listOptions(ctx)

	users, total, err := api.svc.Query(ctx.Request().Context(), filter, opts)
	if err != nil {
		return err
	}
	return respondPage(ctx, nonNil(users), total, opts)
}

func (api *userApi) retrieve(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Read, access.KindUser, id); err != nil {
		return err
	}
	usr, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, usr)
}

func (api *userApi) update(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Update, access.KindUser, id); err != nil {
		return err
	}
	rctx := ctx.Request().Context()
	usr, err := api.svc.GetByID(rctx, id)
	if err != nil {
		return err
	}

	var data user.UpdateUser
	if err := bind(ctx, &data); err != nil {
		return err
	}
	// profiles are tied to the role
	if data.Role != "" && data.Role != usr.Role {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: "the role of a user cannot be changed"})
	}
	if err := data.Validate(usr, api.validate); err != nil {
		return err
	}

	if usr, err = api.svc.Update(rctx, usr, data); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, usr)
}

func (api *userApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	actor, err := api.authorize(ctx, access.Delete, access.KindUser, id)
	if err != nil {
		return err
	}
	// Say No to Suicide! ctxUser cannot delete themselves
	if id == actor.UserID {
		return core.ErrForbidden
	}

	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, messageResponse{Message: "user deleted"})
}
