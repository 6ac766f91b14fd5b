package controllers

import (
	"context"

	"github.com/angelmondragon/atelier-storefront/api/middleware"
	pkgerrors "github.com/angelmondragon/atelier-storefront/pkg/errors"
)

func clientIDFrom(ctx context.Context) (string, error) {
	clientID := middleware.ClientIDFromContext(ctx)
	if clientID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "X-Client-Id header is required")
	}
	return clientID, nil
}
