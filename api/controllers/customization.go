package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/atelier-storefront/api/responses"
	"github.com/angelmondragon/atelier-storefront/api/validators"
	"github.com/angelmondragon/atelier-storefront/internal/customization"
	pkgerrors "github.com/angelmondragon/atelier-storefront/pkg/errors"
	"github.com/angelmondragon/atelier-storefront/pkg/logger"
)

type openSessionPayload struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Confirm   bool  `json:"confirm"`
}

// selectPayload carries either a single value (select and text options) or a full list
// (multi-select options). An empty value or list clears the selection.
type selectPayload struct {
	Value  *string  `json:"value" validate:"omitempty,max=256"`
	Values []string `json:"values" validate:"omitempty,max=32,dive,max=64"`
}

type togglePayload struct {
	Value string `json:"value" validate:"required,max=64"`
}

type sessionResponse struct {
	View     customization.View      `json:"view"`
	LineItem *customization.LineItem `json:"line_item,omitempty"`
}

func renderSession(s *customization.Session) sessionResponse {
	s.FlushPrice()
	return sessionResponse{View: customization.Project(s.Snapshot())}
}

// SessionOpen starts (or resumes) the wizard for a product.
func SessionOpen(mgr *customization.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload openSessionPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		session, err := mgr.Open(ctx, clientID, payload.ProductID, payload.Confirm)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, renderSession(session))
	}
}

func SessionGet(mgr *customization.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		session, err := mgr.Get(clientID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, renderSession(session))
	}
}

// SessionSelect sets one option. The price is settled before responding so the view
// always carries the total for the selections it shows.
func SessionSelect(mgr *customization.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		optionID := strings.TrimSpace(chi.URLParam(r, "optionId"))

		var payload selectPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if payload.Value != nil && payload.Values != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "send either value or values"))
			return
		}

		session, err := mgr.Get(clientID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if payload.Values != nil {
			err = session.SelectMany(optionID, payload.Values)
		} else {
			value := ""
			if payload.Value != nil {
				value = *payload.Value
			}
			err = session.Select(optionID, value)
		}
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, renderSession(session))
	}
}

// SessionToggle adds or removes one value of a multi-select option.
func SessionToggle(mgr *customization.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		optionID := strings.TrimSpace(chi.URLParam(r, "optionId"))

		var payload togglePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		session, err := mgr.Get(clientID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := session.Toggle(optionID, payload.Value); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, renderSession(session))
	}
}

// SessionNext validates the current step and advances. On the summary step the item
// goes to the cart and is returned alongside the final view.
func SessionNext(mgr *customization.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		session, item, err := mgr.Advance(ctx, clientID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resp := renderSession(session)
		if item != nil {
			resp.LineItem = item
			responses.WriteSuccessStatus(w, http.StatusCreated, resp)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

func SessionBack(mgr *customization.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		session, err := mgr.Get(clientID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		session.Retreat()
		responses.WriteSuccess(w, renderSession(session))
	}
}

// SessionClose ends the wizard. A session holding selections needs ?confirm=true;
// without it the answer is 409 with requires_confirmation and nothing changes.
func SessionClose(mgr *customization.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID, err := clientIDFrom(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		confirm, err := validators.ParseQueryBool(r, "confirm")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := mgr.Close(ctx, clientID, confirm); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"closed": true})
	}
}
