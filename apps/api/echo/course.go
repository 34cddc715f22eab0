package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudais-khan12/LMS-sub002/core/access"
	"github.com/sudais-khan12/LMS-sub002/core/course"
	"github.com/sudais-khan12/LMS-sub002/core/report"
)

type courseApi struct {
	base
	svc     *course.Service
	reports *report.Service
}

// register mounts the course routes; write endpoints only when write is set.
func (api *courseApi) register(g *echo.Group, write bool) {
	cg := g.Group("/courses")
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	if write {
		cg.POST("", api.create)
		cg.PUT("/:id", api.update)
		cg.DELETE("/:id", api.destroy)
		cg.GET("/:id/report", api.report)
		cg.DELETE("/:id/students/:studentId", api.removeStudent)
	}
}

func (api *courseApi) create(ctx echo.Context) error {
	actor, err := api.authorize(ctx, access.Create, access.KindCourse, "")
	if err != nil {
		return err
	}
	var data course.NewCourse
	if err := bind(ctx, &data); err != nil {
		return err
	}
	// teachers create their own courses
	if actor.IsTeacher() {
		data.TeacherID = actor.TeacherID
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, c)
}

func (api *courseApi) query(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return err
	}
	var filter course.QueryFilter
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

	courses, total, err := api.svc.Query(ctx.Request().Context(), filter, opts)
	if err != nil {
		return err
	}
	return respondPage(ctx, nonNil(courses), total, opts)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Read, access.KindCourse, id); err != nil {
		return err
	}
	c, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, c)
}

func (api *courseApi) update(ctx echo.Context) error {
	id := ctx.Param("id")
	actor, err := api.authorize(ctx, access.Update, access.KindCourse, id)
	if err != nil {
		return err
	}
	rctx := ctx.Request().Context()
	c, err := api.svc.GetByID(rctx, id)
	if err != nil {
		return err
	}

	var data course.UpdateCourse
	if err := bind(ctx, &data); err != nil {
		return err
	}
	// only admins reassign courses
	if actor.IsTeacher() {
		data.TeacherID = nil
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if c, err = api.svc.Update(rctx, c, data); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, c)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Delete, access.KindCourse, id); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, messageResponse{Message: "course deleted"})
}

// removeStudent unenrolls a student: their attendance and submissions in the course are deleted.
func (api *courseApi) removeStudent(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Update, access.KindCourse, id); err != nil {
		return err
	}
	res, err := api.svc.RemoveStudent(ctx.Request().Context(), id, ctx.Param("studentId"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, res)
}

func (api *courseApi) report(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Read, access.KindCourse, id); err != nil {
		return err
	}
	rctx := ctx.Request().Context()
	c, err := api.svc.GetByID(rctx, id)
	if err != nil {
		return err
	}
	cr, err := api.reports.CourseReport(rctx, report.CourseRef{ID: c.ID, Title: c.Title, Code: c.Code})
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, cr)
}
