package handlers

import (
	"github.com/rs/zerolog"

	"tribeserver/internal/domain"
	"tribeserver/internal/infra"
	"tribeserver/internal/providers/image"
	"tribeserver/internal/storage"
)

// App bundles the collaborators the request pipeline depends on. Handlers are
// stateless; every request is an independent transform over these.
type App struct {
	Config    *infra.Config
	Logger    zerolog.Logger
	Results   domain.ResultRepository
	Store     storage.Store
	Keys      *storage.Keys
	Generator image.Generator
}

// NewApp constructs the handler container.
func NewApp(cfg *infra.Config, logger zerolog.Logger, results domain.ResultRepository, store storage.Store, generator image.Generator) *App {
	return &App{
		Config:    cfg,
		Logger:    logger,
		Results:   results,
		Store:     store,
		Keys:      storage.NewKeys(),
		Generator: generator,
	}
}

// publicURL derives the externally reachable URL for a stored object,
// applying the deployment's internal-to-public host rewrite when configured.
func (a *App) publicURL(key string) string {
	return storage.RewritePublicURL(a.Store.PublicURL(key), a.Config.StorageBaseURL, a.Config.StoragePublicURL)
}
