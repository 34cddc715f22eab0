package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudais-khan12/LMS-sub002/core/access"
	"github.com/sudais-khan12/LMS-sub002/core/notification"
)

type notificationApi struct {
	base
	svc *notification.Dispatcher
}

func (api *notificationApi) registerShared(g *echo.Group) {
	ng := g.Group("/notifications")
	ng.GET("", api.query)
	ng.GET("/unread-count", api.unreadCount)
	ng.PATCH("/read-all", api.markAllRead)
	ng.PATCH("/:id/read", api.markRead)
}

// query lists the caller's own notifications.
func (api *notificationApi) query(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return err
	}
	var filter notification.QueryFilter
	if err := bind(ctx, &filter); err != nil {
		return err
	}
	filter.Clean()
	filter.UserID = actor.UserID
	opts := listOptions(ctx)

	ns, total, err := api.svc.Query(ctx.Request().Context(), filter, opts)
	if err != nil {
		return err
	}
	return respondPage(ctx, nonNil(ns), total, opts)
}

func (api *notificationApi) unreadCount(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return err
	}
	n, err := api.svc.CountUnread(ctx.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, echo.Map{"count": n})
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.authorize(ctx, access.Update, access.KindNotification, id); err != nil {
		return err
	}
	n, err := api.svc.MarkRead(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, n)
}

func (api *notificationApi) markAllRead(ctx echo.Context) error {
	actor, err := mustActor(ctx)
	if err != nil {
		return err
	}
	n, err := api.svc.MarkAllRead(ctx.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, echo.Map{"updated": n})
}

func (api *notificationApi) broadcast(ctx echo.Context) error {
	var data notification.Broadcast
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ns, err := api.svc.Broadcast(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, echo.Map{"sent": len(ns)})
}
