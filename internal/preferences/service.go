package preferences

import (
	"context"

	"github.com/angelmondragon/atelier-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/atelier-storefront/pkg/errors"
	"github.com/angelmondragon/atelier-storefront/pkg/storage"
)

// ServiceParams groups dependencies for the preferences service.
type ServiceParams struct {
	Storage *storage.Local
}

// ThemePreference is the effective theme and whether it was chosen explicitly.
type ThemePreference struct {
	Theme enums.Theme `json:"theme"`
	Saved bool        `json:"saved"`
}

// Service owns the color scheme preference persisted under the "dark_mode" key.
// The system hint is the client's reported prefers-color-scheme and only applies while
// nothing is saved.
type Service interface {
	Theme(ctx context.Context, clientID string, systemHint enums.Theme) ThemePreference
	SetTheme(ctx context.Context, clientID string, theme enums.Theme) (ThemePreference, error)
	ToggleTheme(ctx context.Context, clientID string, systemHint enums.Theme) ThemePreference
}

type service struct {
	storage *storage.Local
}

// NewService builds a preferences service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client storage is required")
	}
	return &service{storage: params.Storage}, nil
}

func (s *service) Theme(ctx context.Context, clientID string, systemHint enums.Theme) ThemePreference {
	if raw, ok := s.storage.Client(clientID).LoadString(ctx, storage.KeyDarkMode); ok {
		if theme, err := enums.ParseTheme(raw); err == nil {
			return ThemePreference{Theme: theme, Saved: true}
		}
	}
	if !systemHint.IsValid() {
		systemHint = enums.ThemeLight
	}
	return ThemePreference{Theme: systemHint}
}

func (s *service) SetTheme(ctx context.Context, clientID string, theme enums.Theme) (ThemePreference, error) {
	if !theme.IsValid() {
		return ThemePreference{}, pkgerrors.New(pkgerrors.CodeValidation, "theme must be one of: light, dark")
	}
	s.storage.Client(clientID).SaveString(ctx, storage.KeyDarkMode, theme.String())
	return ThemePreference{Theme: theme, Saved: true}, nil
}

// ToggleTheme flips the effective theme and saves the result.
func (s *service) ToggleTheme(ctx context.Context, clientID string, systemHint enums.Theme) ThemePreference {
	next := s.Theme(ctx, clientID, systemHint).Theme.Toggle()
	s.storage.Client(clientID).SaveString(ctx, storage.KeyDarkMode, next.String())
	return ThemePreference{Theme: next, Saved: true}
}
