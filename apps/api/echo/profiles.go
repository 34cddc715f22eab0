package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudais-khan12/LMS-sub002/core/access"
	"github.com/sudais-khan12/LMS-sub002/core/student"
	"github.com/sudais-khan12/LMS-sub002/core/teacher"
)

type teacherApi struct {
	base
	svc *teacher.Service
}

// register mounts the teacher routes; only admin gets the listing and the write endpoints.
func (api *teacherApi) register(g *echo.Group, admin bool) {
	tg := g.Group("/teachers")
	tg.GET("/:id", api.retrieve)
	if admin {
		tg.GET("", api.query)
		tg.POST("", api.create)
		tg.PUT("/:id", api.update)
		tg.DELETE("/:id", api.destroy)
	}
}

func (api *teacherApi) create(ctx echo.Context) error {
	if err := api.guard(ctx, access.Create, access.KindTeacher); err != nil {
		return err
	}
	var data teacher.NewTeacher
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, t)
}

func (api *teacherApi) query(ctx echo.Context) error {
	if err := api.guard(ctx, access.Read, access.KindTeacher); err != nil {
		return err
	}
	var filter teacher.QueryFilter
	if err := bind(ctx, &filter); err != nil {
		return err
	}
	filter.Clean()
	opts := listOptions(ctx)

	teachers, total, err := api.svc.Query(ctx.Request().Context(), filter, opts)
	if err != nil {
		return err
	}
	return respondPage(ctx, nonNil(teachers), total, opts)
}

func (api *teacherApi) retrieve(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Read, access.KindTeacher, id); err != nil {
		return err
	}
	t, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, t)
}

func (api *teacherApi) update(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Update, access.KindTeacher, id); err != nil {
		return err
	}
	rctx := ctx.Request().Context()
	t, err := api.svc.GetByID(rctx, id)
	if err != nil {
		return err
	}
	usr, err := api.svc.User(rctx, t)
	if err != nil {
		return err
	}

	var data teacher.UpdateTeacher
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(usr, api.validate); err != nil {
		return err
	}

	if t, err = api.svc.Update(rctx, t, usr, data); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, t)
}

func (api *teacherApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Delete, access.KindTeacher, id); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, messageResponse{Message: "teacher deleted"})
}

type studentApi struct {
	base
	svc *student.Service
}

// register mounts the student routes; only admins get the write endpoints.
func (api *studentApi) register(g *echo.Group, admin bool) {
	sg := g.Group("/students")
	sg.GET("", api.query)
	sg.GET("/:id", api.retrieve)
	if admin {
		sg.POST("", api.create)
		sg.PUT("/:id", api.update)
		sg.DELETE("/:id", api.destroy)
	}
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, s)
}

func (api *studentApi) query(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return err
	}
	var filter student.QueryFilter
	if err := bind(ctx, &filter); err != nil {
		return err
	}
	filter.Clean()
	if actor.IsTeacher() {
		filter.TeacherID = actor.TeacherID
	}
	opts := listOptions(ctx)

	students, total, err := api.svc.Query(ctx.Request().Context(), filter, opts)
	if err != nil {
		return err
	}
	return respondPage(ctx, nonNil(students), total, opts)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Read, access.KindStudent, id); err != nil {
		return err
	}
	s, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, s)
}

func (api *studentApi) update(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	s, err := api.svc.GetByID(rctx, ctx.Param("id"))
	if err != nil {
		return err
	}
	usr, err := api.svc.User(rctx, s)
	if err != nil {
		return err
	}

	var data student.UpdateStudent
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(usr, api.validate); err != nil {
		return err
	}

	if s, err = api.svc.Update(rctx, s, usr, data); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, s)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, messageResponse{Message: "student deleted"})
}
