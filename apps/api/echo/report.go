package echoapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudais-khan12/LMS-sub002/core/access"
	"github.com/sudais-khan12/LMS-sub002/core/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type reportApi struct {
	base
	svc *report.Service
}

// register mounts the report routes; only admins write and export.
func (api *reportApi) register(g *echo.Group, admin bool) {
	rg := g.Group("/reports")
	rg.GET("", api.query)
	if admin {
		rg.POST("", api.create)
		rg.GET("/export", api.export)
		rg.GET("/:id", api.retrieve)
		rg.PUT("/:id", api.update)
		rg.DELETE("/:id", api.destroy)
	}
}

func (api *reportApi) create(ctx echo.Context) error {
	var data report.NewReport
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	r, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, r)
}

func (api *reportApi) filter(ctx echo.Context) (report.QueryFilter, error) {
	actor, err := mustActor(ctx)
	if err != nil {
		return report.QueryFilter{}, err
	}
	var filter report.QueryFilter
	if err := bind(ctx, &filter); err != nil {
		return filter, err
	}
	filter.Clean()
	switch {
	case actor.IsTeacher():
		filter.TeacherID = actor.TeacherID
	case actor.IsStudent():
		filter.StudentID = actor.StudentID
	}
	return filter, nil
}

func (api *reportApi) query(ctx echo.Context) error {
	filter, err := api.filter(ctx)
	if err != nil {
		return err
	}
	opts := listOptions(ctx)

	reports, total, err := api.svc.Query(ctx.Request().Context(), filter, opts)
	if err != nil {
		return err
	}
	return respondPage(ctx, nonNil(reports), total, opts)
}

func (api *reportApi) retrieve(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Read, access.KindReport, id); err != nil {
		return err
	}
	r, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, r)
}

func (api *reportApi) update(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	r, err := api.svc.GetByID(rctx, ctx.Param("id"))
	if err != nil {
		return err
	}

	var data report.UpdateReport
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if r, err = api.svc.Update(rctx, r, data); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, r)
}

func (api *reportApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, messageResponse{Message: "report deleted"})
}

// export streams the matching reports as an xlsx workbook.
func (api *reportApi) export(ctx echo.Context) error {
	filter, err := api.filter(ctx)
	if err != nil {
		return err
	}
	content, err := api.svc.Export(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("reports-%s.xlsx", time.Now().UTC().Format("20060102"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return ctx.Blob(http.StatusOK, xlsxContentType, content)
}

// Dashboards

func (api *reportApi) adminDashboard(ctx echo.Context) error {
	d, err := api.svc.AdminDashboard(ctx.Request().Context())
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, d)
}

func (api *reportApi) teacherDashboard(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return err
	}
	d, err := api.svc.TeacherDashboard(ctx.Request().Context(), actor.TeacherID)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, d)
}

func (api *reportApi) studentDashboard(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return err
	}
	d, err := api.svc.StudentDashboard(ctx.Request().Context(), actor.StudentID, actor.UserID)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, d)
}
