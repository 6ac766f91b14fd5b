package controllers

import (
	"net/http"

	"github.com/angelmondragon/atelier-storefront/api/responses"
	"github.com/angelmondragon/atelier-storefront/api/validators"
	"github.com/angelmondragon/atelier-storefront/internal/preferences"
	"github.com/angelmondragon/atelier-storefront/pkg/enums"
	"github.com/angelmondragon/atelier-storefront/pkg/logger"
)

// prefersColorSchemeHeader is the user-agent client hint for the system color scheme.
const prefersColorSchemeHeader = "Sec-CH-Prefers-Color-Scheme"

type setThemePayload struct {
	Theme string `json:"theme" validate:"required,theme"`
}

// systemTheme reads the client's system preference from ?system= or the client hint header.
func systemTheme(r *http.Request) enums.Theme {
	raw := r.URL.Query().Get("system")
	if raw == "" {
		raw = r.Header.Get(prefersColorSchemeHeader)
	}
	theme, err := enums.ParseTheme(raw)
	if err != nil {
		return enums.ThemeLight
	}
	return theme
}

func ThemeGet(svc preferences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		w.Header().Add("Vary", prefersColorSchemeHeader)
		responses.WriteSuccess(w, svc.Theme(ctx, clientID, systemTheme(r)))
	}
}

func ThemeSet(svc preferences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload setThemePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pref, err := svc.SetTheme(ctx, clientID, enums.Theme(payload.Theme))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, pref)
	}
}

func ThemeToggle(svc preferences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.ToggleTheme(ctx, clientID, systemTheme(r)))
	}
}
