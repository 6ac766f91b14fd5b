package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/atelier-storefront/api/middleware"
	"github.com/angelmondragon/atelier-storefront/internal/cart"
	"github.com/angelmondragon/atelier-storefront/internal/catalog"
	"github.com/angelmondragon/atelier-storefront/internal/customization"
	"github.com/angelmondragon/atelier-storefront/internal/preferences"
	"github.com/angelmondragon/atelier-storefront/internal/wishlist"
	"github.com/angelmondragon/atelier-storefront/pkg/db"
	"github.com/angelmondragon/atelier-storefront/pkg/debounce"
	"github.com/angelmondragon/atelier-storefront/pkg/logger"
	"github.com/angelmondragon/atelier-storefront/pkg/migrate"
	"github.com/angelmondragon/atelier-storefront/pkg/storage"
)

const testClientID = "client-0001"

type apiError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// services is the seeded catalog plus in-memory client state behind every handler.
type services struct {
	catalog  catalog.Service
	schemas  customization.Provider
	cart     cart.Service
	wishlist wishlist.Service
	prefs    preferences.Service
	sessions *customization.Manager
}

func newServices(t *testing.T) services {
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
	local := storage.NewLocal(storage.NewMemory(0), logger.Nop(), nil)
	schemas := customization.NewConfigCache(catalogSvc, nil)

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
		Logger:    logger.Nop(),
	})
	require.NoError(t, err)

	return services{
		catalog:  catalogSvc,
		schemas:  schemas,
		cart:     cartSvc,
		wishlist: wishlistSvc,
		prefs:    prefSvc,
		sessions: manager,
	}
}

// newRequest builds a request for testClientID. params are chi URL params as key/value pairs.
func newRequest(t *testing.T, method, target string, body any, params ...string) *http.Request {
	t.Helper()
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	routeCtx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		routeCtx.URLParams.Add(params[i], params[i+1])
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	return req.WithContext(middleware.WithClientID(ctx, testClientID))
}

func serve(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	return envelope.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiError {
	t.Helper()
	var envelope struct {
		Error apiError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	return envelope.Error
}
