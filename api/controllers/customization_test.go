package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/atelier-storefront/pkg/logger"
)

const sessionPath = "/api/v1/customization/session"

type sessionView struct {
	View struct {
		Step  int `json:"step"`
		Price struct {
			TotalPrice decimal.Decimal `json:"total_price"`
		} `json:"price"`
		Navigation struct {
			NextLabel string `json:"next_label"`
		} `json:"navigation"`
	} `json:"view"`
	LineItem *struct {
		ID string `json:"id"`
	} `json:"line_item"`
}

func openSession(t *testing.T, svc services, productID int64) sessionView {
	t.Helper()
	rec := serve(SessionOpen(svc.sessions, logger.Nop()), newRequest(t, http.MethodPost, sessionPath, map[string]any{"product_id": productID}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[sessionView](t, rec)
}

func selectOption(t *testing.T, svc services, optionID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := newRequest(t, http.MethodPut, sessionPath+"/selections/"+optionID, body, "optionId", optionID)
	return serve(SessionSelect(svc.sessions, logger.Nop()), req)
}

func TestSessionOpen(t *testing.T) {
	svc := newServices(t)
	handler := SessionOpen(svc.sessions, logger.Nop())

	rec := serve(handler, newRequest(t, http.MethodPost, sessionPath, map[string]any{"product_id": 12}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = serve(handler, newRequest(t, http.MethodPost, sessionPath, map[string]any{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	view := openSession(t, svc, 10)
	assert.Equal(t, 1, view.View.Step)

	rec = serve(SessionGet(svc.sessions, logger.Nop()), newRequest(t, http.MethodGet, sessionPath, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeData[sessionView](t, rec).View.Step)
}

func TestSessionGetWithoutSession(t *testing.T) {
	svc := newServices(t)
	rec := serve(SessionGet(svc.sessions, logger.Nop()), newRequest(t, http.MethodGet, sessionPath, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = selectOption(t, svc, "metal_type", map[string]any{"value": "gold"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionSelectRejectsListOverLimit(t *testing.T) {
	svc := newServices(t)
	openSession(t, svc, 10)
	require.Equal(t, http.StatusOK, selectOption(t, svc, "metal_type", map[string]any{"value": "gold"}).Code)

	rec := selectOption(t, svc, "charms", map[string]any{"values": []string{"heart", "star"}})
	require.Equal(t, http.StatusOK, rec.Code)
	withCharms := decodeData[sessionView](t, rec).View.Price.TotalPrice

	rec = selectOption(t, svc, "charms", map[string]any{"values": []string{"heart", "star", "moon", "key"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, "Charm Addition: Maximum 3 selections allowed", apiErr.Message)
	assert.EqualValues(t, 3, apiErr.Details["max_selections"])

	session, err := svc.sessions.Get(testClientID)
	require.NoError(t, err)
	sel, ok := session.Selections().Get("charms")
	require.True(t, ok)
	assert.Equal(t, []string{"heart", "star"}, sel.Values)

	rec = serve(SessionGet(svc.sessions, logger.Nop()), newRequest(t, http.MethodGet, sessionPath, nil))
	assert.True(t, withCharms.Equal(decodeData[sessionView](t, rec).View.Price.TotalPrice))
}

func TestSessionSelectEmptyBodyClearsMultiSelect(t *testing.T) {
	svc := newServices(t)
	openSession(t, svc, 10)
	rec := selectOption(t, svc, "metal_type", map[string]any{"value": "gold"})
	require.Equal(t, http.StatusOK, rec.Code)
	before := decodeData[sessionView](t, rec).View.Price.TotalPrice

	for _, body := range []map[string]any{{}, {"value": ""}} {
		require.Equal(t, http.StatusOK, selectOption(t, svc, "charms", map[string]any{"values": []string{"heart"}}).Code)

		rec := selectOption(t, svc, "charms", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.True(t, before.Equal(decodeData[sessionView](t, rec).View.Price.TotalPrice))

		session, err := svc.sessions.Get(testClientID)
		require.NoError(t, err)
		_, ok := session.Selections().Get("charms")
		assert.False(t, ok)
	}

	rec = selectOption(t, svc, "charms", map[string]any{"value": "heart"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = selectOption(t, svc, "charms", map[string]any{"value": "heart", "values": []string{"heart"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionToggleStopsAtLimit(t *testing.T) {
	svc := newServices(t)
	openSession(t, svc, 10)
	toggle := SessionToggle(svc.sessions, logger.Nop())
	toggleValue := func(value string) *httptest.ResponseRecorder {
		req := newRequest(t, http.MethodPost, sessionPath+"/selections/charms/toggle", map[string]any{"value": value}, "optionId", "charms")
		return serve(toggle, req)
	}

	for _, v := range []string{"heart", "star", "moon"} {
		require.Equal(t, http.StatusOK, toggleValue(v).Code)
	}
	rec := toggleValue("key")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Charm Addition: Maximum 3 selections allowed", decodeError(t, rec).Message)

	require.Equal(t, http.StatusOK, toggleValue("moon").Code)
	assert.Equal(t, http.StatusOK, toggleValue("key").Code)
}

func TestSessionNextAndBack(t *testing.T) {
	svc := newServices(t)
	openSession(t, svc, 10)
	next := SessionNext(svc.sessions, logger.Nop())

	rec := serve(next, newRequest(t, http.MethodPost, sessionPath+"/next", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"Metal Type is required"}, decodeError(t, rec).Details["errors"])

	selectOption(t, svc, "metal_type", map[string]any{"value": "gold"})
	rec = serve(next, newRequest(t, http.MethodPost, sessionPath+"/next", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeData[sessionView](t, rec).View.Step)
	assert.Nil(t, decodeData[sessionView](t, rec).LineItem)

	rec = serve(SessionBack(svc.sessions, logger.Nop()), newRequest(t, http.MethodPost, sessionPath+"/back", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeData[sessionView](t, rec).View.Step)
}

func TestSessionCloseNeedsConfirmation(t *testing.T) {
	svc := newServices(t)
	openSession(t, svc, 2)
	selectOption(t, svc, "metal_type", map[string]any{"value": "platinum"})
	closeSession := SessionClose(svc.sessions, logger.Nop())

	rec := serve(closeSession, newRequest(t, http.MethodDelete, sessionPath, nil))
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, true, decodeError(t, rec).Details["requires_confirmation"])

	rec = serve(closeSession, newRequest(t, http.MethodDelete, sessionPath+"?confirm=maybe", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(closeSession, newRequest(t, http.MethodDelete, sessionPath+"?confirm=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]bool{"closed": true}, decodeData[map[string]bool](t, rec))

	_, err := svc.sessions.Get(testClientID)
	assert.Error(t, err)
}
