package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/atelier-storefront/api/controllers"
	"github.com/angelmondragon/atelier-storefront/internal/cart"
	"github.com/angelmondragon/atelier-storefront/internal/catalog"
	"github.com/angelmondragon/atelier-storefront/internal/customization"
	"github.com/angelmondragon/atelier-storefront/internal/preferences"
	"github.com/angelmondragon/atelier-storefront/internal/wishlist"
	"github.com/angelmondragon/atelier-storefront/pkg/config"
	"github.com/angelmondragon/atelier-storefront/pkg/db"
	"github.com/angelmondragon/atelier-storefront/pkg/debounce"
	"github.com/angelmondragon/atelier-storefront/pkg/logger"
	"github.com/angelmondragon/atelier-storefront/pkg/metrics"
	"github.com/angelmondragon/atelier-storefront/pkg/migrate"
	"github.com/angelmondragon/atelier-storefront/pkg/storage"
)

const testClient = "client-0001"

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type apiError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

type sessionBody struct {
	View struct {
		Step       int    `json:"step"`
		StepTitle  string `json:"step_title"`
		Completed  bool   `json:"completed"`
		TotalLabel string `json:"total_label"`
		Price      struct {
			TotalPrice decimal.Decimal `json:"total_price"`
		} `json:"price"`
		Navigation struct {
			NextLabel string `json:"next_label"`
		} `json:"navigation"`
	} `json:"view"`
	LineItem *struct {
		ID         string          `json:"id"`
		TotalPrice decimal.Decimal `json:"total_price"`
	} `json:"line_item"`
}

func newTestRouter(t *testing.T, checks ...controllers.ReadinessCheck) http.Handler {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	ctx := context.Background()
	require.NoError(t, migrate.AutoMigrateModels(ctx, db.Wrap(conn)))
	require.NoError(t, catalog.SeedDefaults(ctx, conn))

	catalogSvc, err := catalog.NewService(catalog.ServiceParams{Repo: catalog.NewRepository(conn)})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	storeMetrics := metrics.NewStorefront(reg)
	local := storage.NewLocal(storage.NewMemory(0), logger.Nop(), storeMetrics)
	schemas := customization.NewConfigCache(catalogSvc, storeMetrics)

	cartSvc, err := cart.NewService(cart.ServiceParams{Storage: local, Products: catalogSvc})
	require.NoError(t, err)
	wishlistSvc, err := wishlist.NewService(wishlist.ServiceParams{Storage: local, Products: catalogSvc, Cart: cartSvc})
	require.NoError(t, err)
	prefSvc, err := preferences.NewService(preferences.ServiceParams{Storage: local})
	require.NoError(t, err)

	manager, err := customization.NewManager(customization.ManagerParams{
		Schemas:   schemas,
		Products:  catalogSvc,
		Storage:   local,
		Cart:      cartSvc,
		Scheduler: debounce.NewManual(),
		Metrics:   storeMetrics,
		Logger:    logger.Nop(),
	})
	require.NoError(t, err)

	return NewRouter(RouterParams{
		Config:         &config.Config{App: config.AppConfig{Env: config.AppEnvDev}},
		Logger:         logger.Nop(),
		Checks:         checks,
		Catalog:        catalogSvc,
		Schemas:        schemas,
		Cart:           cartSvc,
		Wishlist:       wishlistSvc,
		Preferences:    prefSvc,
		Sessions:       manager,
		HTTPMetrics:    metrics.NewHTTP(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
}

func call(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if strings.HasPrefix(path, "/api/v1/") {
		req.Header.Set("X-Client-Id", testClient)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func data[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Data
}

func failure(t *testing.T, rec *httptest.ResponseRecorder) apiError {
	t.Helper()
	var env struct {
		Error apiError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Error
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestRouter(t, controllers.ReadinessCheck{Name: "database", Pinger: okPinger{}})

	rec := call(t, h, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, config.AppEnvDev, rec.Header().Get("X-Atelier-Env"))

	rec = call(t, h, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	h = newTestRouter(t, controllers.ReadinessCheck{Name: "redis", Pinger: failingPinger{}})
	rec = call(t, h, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "DEPENDENCY_ERROR", failure(t, rec).Code)
}

func TestClientRoutesRequireClientID(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Client-Id", "bad id!")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCustomizationSessionFlow(t *testing.T) {
	h := newTestRouter(t)
	base := "/api/v1/customization/session"

	rec := call(t, h, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, h, http.MethodPost, base, map[string]any{"product_id": 12})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = call(t, h, http.MethodPost, base, map[string]any{"product_id": 10})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := data[sessionBody](t, rec)
	assert.Equal(t, 1, body.View.Step)

	rec = call(t, h, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := failure(t, rec).Details["errors"]
	assert.Equal(t, []any{"Metal Type is required"}, errs)

	rec = call(t, h, http.MethodPut, base+"/selections/metal_type", map[string]any{"value": "gold"})
	require.Equal(t, http.StatusOK, rec.Code)
	body = data[sessionBody](t, rec)
	assert.True(t, decimal.NewFromInt(1070).Equal(body.View.Price.TotalPrice), body.View.Price.TotalPrice.String())

	rec = call(t, h, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, data[sessionBody](t, rec).View.Step)

	call(t, h, http.MethodPut, base+"/selections/bracelet_size", map[string]any{"value": `7"`})
	call(t, h, http.MethodPost, base+"/selections/charms/toggle", map[string]any{"value": "heart"})
	rec = call(t, h, http.MethodPut, base+"/selections/charms", map[string]any{"values": []string{"heart", "star"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decimal.NewFromInt(1170).Equal(data[sessionBody](t, rec).View.Price.TotalPrice))

	call(t, h, http.MethodPost, base+"/selections/charms/toggle", map[string]any{"value": "moon"})
	rec = call(t, h, http.MethodPost, base+"/selections/charms/toggle", map[string]any{"value": "key"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	call(t, h, http.MethodPost, base+"/selections/charms/toggle", map[string]any{"value": "moon"})

	rec = call(t, h, http.MethodPut, base+"/selections/charms", map[string]any{"values": []string{"heart", "star", "moon", "key"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Charm Addition: Maximum 3 selections allowed", failure(t, rec).Message)

	rec = call(t, h, http.MethodPut, base+"/selections/charms", map[string]any{"value": "heart", "values": []string{"heart"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h, http.MethodPost, base+"/back", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, data[sessionBody](t, rec).View.Step)

	call(t, h, http.MethodPost, base+"/next", nil)
	call(t, h, http.MethodPost, base+"/next", nil)
	rec = call(t, h, http.MethodPut, base+"/selections/engraving", map[string]any{"value": "LOVE"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = data[sessionBody](t, rec)
	assert.Equal(t, 4, body.View.Step)
	assert.Equal(t, "Add to Cart", body.View.Navigation.NextLabel)

	rec = call(t, h, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	body = data[sessionBody](t, rec)
	require.NotNil(t, body.LineItem)
	assert.True(t, strings.HasPrefix(body.LineItem.ID, "custom_10_"))
	assert.True(t, decimal.NewFromInt(1205).Equal(body.LineItem.TotalPrice))

	rec = call(t, h, http.MethodGet, "/api/v1/cart", nil)
	c := data[cart.Cart](t, rec)
	require.Len(t, c.Items, 1)
	assert.True(t, c.Items[0].Customized)
	assert.True(t, decimal.NewFromInt(1205).Equal(c.Total))

	rec = call(t, h, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomizationSessionCloseNeedsConfirmation(t *testing.T) {
	h := newTestRouter(t)
	base := "/api/v1/customization/session"

	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, base, map[string]any{"product_id": 2}).Code)
	call(t, h, http.MethodPut, base+"/selections/metal_type", map[string]any{"value": "platinum"})

	rec := call(t, h, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, true, failure(t, rec).Details["requires_confirmation"])

	rec = call(t, h, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h, http.MethodPost, base, map[string]any{"product_id": 6})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, h, http.MethodDelete, base+"?confirm=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t)
	call(t, h, http.MethodGet, "/api/products/1", nil)

	rec := call(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/products/{productId}")
}
