package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudais-khan12/LMS-sub002/core/access"
	"github.com/sudais-khan12/LMS-sub002/core/leave"
)

type leaveApi struct {
	base
	svc *leave.Service
}

func (api *leaveApi) registerShared(g *echo.Group) {
	g.GET("/leaves/:id", api.retrieve)
	g.DELETE("/leaves/:id", api.destroy)
}

func (api *leaveApi) register(g *echo.Group, create, approve bool) {
	lg := g.Group("/leaves")
	lg.GET("", api.query)
	if create {
		lg.POST("", api.create)
	}
	if approve {
		lg.PATCH("/:id/approve", api.approve)
		lg.PATCH("/:id/reject", api.reject)
	}
}

func (api *leaveApi) create(ctx echo.Context) error {
	actor, err := api.authorize(ctx, access.Create, access.KindLeave, "")
	if err != nil {
		return err
	}
	var data leave.NewLeave
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	l, err := api.svc.Create(ctx.Request().Context(), actor, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, l)
}

// query lists all requests to admins, their own and their students' to teachers,
// and their own to students.
func (api *leaveApi) query(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return err
	}
	var filter leave.QueryFilter
	if err := bind(ctx, &filter); err != nil {
		return err
	}
	if err := filter.Validate(api.validate); err != nil {
		return err
	}
	switch {
	case actor.IsTeacher():
		filter.TeacherID = actor.TeacherID
		filter.TeacherUserID = actor.UserID
	case actor.IsStudent():
		filter.RequesterID = actor.UserID
	}
	opts := listOptions(ctx)

	leaves, total, err := api.svc.Query(ctx.Request().Context(), filter, opts)
	if err != nil {
		return err
	}
	return respondPage(ctx, nonNil(leaves), total, opts)
}

func (api *leaveApi) retrieve(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Read, access.KindLeave, id); err != nil {
		return err
	}
	l, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, l)
}

func (api *leaveApi) approve(ctx echo.Context) error {
	return api.decide(ctx, api.svc.Approve)
}

func (api *leaveApi) reject(ctx echo.Context) error {
	return api.decide(ctx, api.svc.Reject)
}

func (api *leaveApi) decide(ctx echo.Context, decision func(ctx context.Context, id string, approver access.Actor) (leave.Leave, error)) error {
	id := ctx.Param("id")
	actor, err := api.authorize(ctx, access.Approve, access.KindLeave, id)
	if err != nil {
		return err
	}
	l, err := decision(ctx.Request().Context(), id, actor)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, l)
}

// destroy withdraws a PENDING request.
func (api *leaveApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Delete, access.KindLeave, id); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, messageResponse{Message: "leave request deleted"})
}
