package withdrawal

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ignatzorin/wallet-gateway/internal/domain/repository"
	"github.com/ignatzorin/wallet-gateway/internal/models"
)

// loadContext параллельно загружает каталог методов и профиль.
// Ответ строится только после завершения обоих запросов.
func loadContext(ctx context.Context, catalog repository.MethodCatalog, profiles repository.ProfileReader) ([]models.PaymentMethod, *models.UserProfile, error) {
	var (
		methods []models.PaymentMethod
		profile *models.UserProfile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		methods, err = catalog.ListMethods(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = profiles.GetProfile(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return methods, profile, nil
}
