package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudais-khan12/LMS-sub002/core/access"
	"github.com/sudais-khan12/LMS-sub002/core/attendance"
)

type attendanceApi struct {
	base
	svc *attendance.Service
}

// register mounts the attendance routes; write endpoints only when write is set.
func (api *attendanceApi) register(g *echo.Group, write bool) {
	ag := g.Group("/attendance")
	ag.GET("", api.query)
	if write {
		ag.POST("", api.mark)
		ag.GET("/:id", api.retrieve)
		ag.PUT("/:id", api.update)
		ag.DELETE("/:id", api.destroy)
	}
}

// mark creates or replaces the status of a student for a course day: 201 when new, 200 otherwise.
func (api *attendanceApi) mark(ctx echo.Context) error {
	if err := api.guard(ctx, access.Create, access.KindAttendance); err != nil {
		return err
	}
	var data attendance.MarkAttendance
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if _, err := api.authorize(ctx, access.Create, access.KindAttendance, data.CourseID); err != nil {
		return err
	}

	a, created, err := api.svc.Mark(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return respond(ctx, code, a)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return err
	}
	var filter attendance.QueryFilter
	if err := bind(ctx, &filter); err != nil {
		return err
	}
	filter.Clean()
	switch {
	case actor.IsTeacher():
		filter.TeacherID = actor.TeacherID
	case actor.IsStudent():
		filter.StudentID = actor.StudentID
	}
	opts := listOptions(ctx)

	records, total, err := api.svc.Query(ctx.Request().Context(), filter, opts)
	if err != nil {
		return err
	}
	return respondPage(ctx, nonNil(records), total, opts)
}

func (api *attendanceApi) retrieve(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Read, access.KindAttendance, id); err != nil {
		return err
	}
	a, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, a)
}

func (api *attendanceApi) update(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Update, access.KindAttendance, id); err != nil {
		return err
	}
	rctx := ctx.Request().Context()
	a, err := api.svc.GetByID(rctx, id)
	if err != nil {
		return err
	}

	var data attendance.UpdateAttendance
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if a, err = api.svc.Update(rctx, a, data); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, a)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Delete, access.KindAttendance, id); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, messageResponse{Message: "attendance deleted"})
}
