package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/atelier-storefront/api/responses"
	"github.com/angelmondragon/atelier-storefront/api/validators"
	"github.com/angelmondragon/atelier-storefront/pkg/logger"
)

// ClientIDHeader carries the browser-generated id that namespaces client state.
const ClientIDHeader = "X-Client-Id"

// ClientID rejects requests without a usable client id and scopes the rest to it.
func ClientID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			clientID := strings.TrimSpace(r.Header.Get(ClientIDHeader))
			if err := validators.ValidateClientID(clientID); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			ctx = WithClientID(ctx, clientID)
			if logg != nil {
				ctx = logg.WithClientID(ctx, clientID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
