package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudais-khan12/LMS-sub002/core/access"
	"github.com/sudais-khan12/LMS-sub002/core/settings"
)

type settingsApi struct {
	base
	store *settings.Store
}

func (api *settingsApi) retrieve(ctx echo.Context) error {
	if err := api.guard(ctx, access.Read, access.KindSettings); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, api.store.Get())
}

func (api *settingsApi) update(ctx echo.Context) error {
	if err := api.guard(ctx, access.Update, access.KindSettings); err != nil {
		return err
	}
	var data settings.Patch
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, api.store.Update(data))
}
