package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/atelier-storefront/api/controllers"
	"github.com/angelmondragon/atelier-storefront/api/middleware"
	"github.com/angelmondragon/atelier-storefront/internal/cart"
	"github.com/angelmondragon/atelier-storefront/internal/catalog"
	"github.com/angelmondragon/atelier-storefront/internal/customization"
	"github.com/angelmondragon/atelier-storefront/internal/preferences"
	"github.com/angelmondragon/atelier-storefront/internal/wishlist"
	"github.com/angelmondragon/atelier-storefront/pkg/config"
	"github.com/angelmondragon/atelier-storefront/pkg/logger"
	"github.com/angelmondragon/atelier-storefront/pkg/metrics"
)

// RouterParams carries every owned service the HTTP surface delegates to.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	Checks         []controllers.ReadinessCheck
	Catalog        catalog.Service
	Schemas        customization.Provider
	Cart           cart.Service
	Wishlist       wishlist.Service
	Preferences    preferences.Service
	Sessions       *customization.Manager
	HTTPMetrics    *metrics.HTTP
	MetricsHandler http.Handler
}

func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger

	schemas := p.Schemas
	if schemas == nil {
		schemas = p.Catalog
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, p.HTTPMetrics),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.Checks...))
	})
	if p.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", p.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(p.Catalog, logg))
			r.Get("/category/{category}", controllers.ProductsByCategory(p.Catalog, logg))
			r.Get("/{productId}", controllers.ProductDetail(p.Catalog, logg))
		})
		r.Get("/customization-config/{category}", controllers.CustomizationConfig(schemas, logg))

		r.Route("/v1", func(r chi.Router) {
			r.Use(middleware.ClientID(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(p.Cart, logg))
				r.Post("/", controllers.CartAddItem(p.Cart, logg))
				r.Delete("/", controllers.CartClear(p.Cart, logg))
				r.Patch("/items/{itemId}", controllers.CartUpdateItem(p.Cart, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(p.Cart, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistGet(p.Wishlist, logg))
				r.Post("/", controllers.WishlistAdd(p.Wishlist, logg))
				r.Post("/{productId}/toggle", controllers.WishlistToggle(p.Wishlist, logg))
				r.Post("/{productId}/move-to-cart", controllers.WishlistMoveToCart(p.Wishlist, logg))
				r.Delete("/{productId}", controllers.WishlistRemove(p.Wishlist, logg))
			})

			r.Route("/preferences/theme", func(r chi.Router) {
				r.Get("/", controllers.ThemeGet(p.Preferences, logg))
				r.Put("/", controllers.ThemeSet(p.Preferences, logg))
				r.Post("/toggle", controllers.ThemeToggle(p.Preferences, logg))
			})

			r.Route("/customization/session", func(r chi.Router) {
				r.Post("/", controllers.SessionOpen(p.Sessions, logg))
				r.Get("/", controllers.SessionGet(p.Sessions, logg))
				r.Delete("/", controllers.SessionClose(p.Sessions, logg))
				r.Put("/selections/{optionId}", controllers.SessionSelect(p.Sessions, logg))
				r.Post("/selections/{optionId}/toggle", controllers.SessionToggle(p.Sessions, logg))
				r.Post("/next", controllers.SessionNext(p.Sessions, logg))
				r.Post("/back", controllers.SessionBack(p.Sessions, logg))
			})
		})
	})

	return r
}
