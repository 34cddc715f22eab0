package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudais-khan12/LMS-sub002/core/access"
	"github.com/sudais-khan12/LMS-sub002/core/assignment"
)

type assignmentApi struct {
	base
	svc *assignment.Service
}

// register mounts the assignment routes; write endpoints only when write is set.
func (api *assignmentApi) register(g *echo.Group, write bool) {
	ag := g.Group("/assignments")
	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
	if write {
		ag.POST("", api.create)
		ag.PUT("/:id", api.update)
		ag.DELETE("/:id", api.destroy)
	}
}

// registerSubmissions mounts the submission routes: graders grade, the others submit.
func (api *assignmentApi) registerSubmissions(g *echo.Group, grader bool) {
	sg := g.Group("/submissions")
	sg.GET("", api.querySubmissions)
	sg.GET("/:id", api.retrieveSubmission)
	if grader {
		sg.PATCH("/:id/grade", api.grade)
	} else {
		sg.POST("", api.submit)
	}
}

func (api *assignmentApi) create(ctx echo.Context) error {
	if err := api.guard(ctx, access.Create, access.KindAssignment); err != nil {
		return err
	}
	var data assignment.NewAssignment
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if _, err := api.authorize(ctx, access.Create, access.KindAssignment, data.CourseID); err != nil {
		return err
	}

	a, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, a)
}

func (api *assignmentApi) query(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return err
	}
	var filter assignment.QueryFilter
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

	assignments, total, err := api.svc.Query(ctx.Request().Context(), filter, opts)
	if err != nil {
		return err
	}
	return respondPage(ctx, nonNil(assignments), total, opts)
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Read, access.KindAssignment, id); err != nil {
		return err
	}
	a, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, a)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Update, access.KindAssignment, id); err != nil {
		return err
	}
	rctx := ctx.Request().Context()
	a, err := api.svc.GetByID(rctx, id)
	if err != nil {
		return err
	}

	var data assignment.UpdateAssignment
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

func (api *assignmentApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Delete, access.KindAssignment, id); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, messageResponse{Message: "assignment deleted"})
}

// Submissions

func (api *assignmentApi) submit(ctx echo.Context) error {
	if err := api.guard(ctx, access.Create, access.KindSubmission); err != nil {
		return err
	}
	var data assignment.NewSubmission
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	actor, err := api.authorize(ctx, access.Create, access.KindSubmission, data.AssignmentID)
	if err != nil {
		return err
	}

	sub, err := api.svc.Submit(ctx.Request().Context(), actor.StudentID, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, sub)
}

func (api *assignmentApi) querySubmissions(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return err
	}
	var filter assignment.SubmissionFilter
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

	subs, total, err := api.svc.QuerySubmissions(ctx.Request().Context(), filter, opts)
	if err != nil {
		return err
	}
	return respondPage(ctx, nonNil(subs), total, opts)
}

func (api *assignmentApi) retrieveSubmission(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Read, access.KindSubmission, id); err != nil {
		return err
	}
	sub, err := api.svc.GetSubmission(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, sub)
}

func (api *assignmentApi) grade(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Grade, access.KindSubmission, id); err != nil {
		return err
	}
	var data assignment.GradeSubmission
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.Grade(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, sub)
}
