package echoapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/access"
)

var (
	orderingParam = "ordering"
	limitParam    = "limit"
	skipParam     = "skip"
)

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// listOptions reads limit, skip and ordering from the query string.
// Invalid numbers fall back to the defaults.
func listOptions(ctx echo.Context) core.ListOptions {
	limit, _ := strconv.Atoi(ctx.QueryParam(limitParam))
	skip, _ := strconv.Atoi(ctx.QueryParam(skipParam))

	ordering := new(Ordering)
	ordering.Bind(ctx)
	return core.ListOptions{
		Pagination: core.NewPagination(limit, skip),
		Ordering:   ordering.Orderings,
	}
}

type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func respond(ctx echo.Context, code int, data interface{}) error {
	return ctx.JSON(code, successResponse{Success: true, Data: data})
}

func respondPage(ctx echo.Context, items interface{}, total int, opts core.ListOptions) error {
	return respond(ctx, http.StatusOK, core.NewPage(items, total, opts.Pagination))
}

type messageResponse struct {
	Message string `json:"message"`
}

// base is shared by every resource api.
type base struct {
	validate *validator.Validate
	resolver *access.Resolver
	logger   core.Logger
}

// bind decodes the request into v; malformed payloads are validation errors.
func bind(ctx echo.Context, v interface{}) error {
	if err := ctx.Bind(v); err != nil {
		if herr, ok := err.(*echo.HTTPError); ok && herr.Code == http.StatusBadRequest {
			return core.NewValidationError(errors.New("malformed request payload"))
		}
		return errors.Wrap(err, "binding request")
	}
	return nil
}

// guard checks the caller's role may attempt action on kind; handlers call it before reading the payload.
func (b base) guard(ctx echo.Context, action access.Action, kind access.Kind) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return err
	}
	if !access.CanAccess(actor.Role, action, kind) {
		return core.ErrForbidden
	}
	return nil
}

// authorize checks that the caller may perform action on the kind record id
// (its parent for Create).
func (b base) authorize(ctx echo.Context, action access.Action, kind access.Kind, id string) (access.Actor, error) {
	actor, err := mustActor(ctx)
	if err != nil {
		return actor, err
	}
	return actor, b.resolver.Authorize(ctx.Request().Context(), actor, action, kind, id)
}

// nonNil keeps empty lists as JSON arrays.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
