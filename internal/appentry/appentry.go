package appentry

import (
	"go.uber.org/fx"

	"github.com/traceyourstack/tys-go/internal/config"
	"github.com/traceyourstack/tys-go/internal/infra"
	"github.com/traceyourstack/tys-go/internal/pkg/logger"
	"github.com/traceyourstack/tys-go/internal/pkg/settings"
	"github.com/traceyourstack/tys-go/internal/repo"
	"github.com/traceyourstack/tys-go/internal/service"
)

func ProvideOptions() []fx.Option {
	opts := []fx.Option{
		fx.Provide(config.Parse),
		fx.Provide(func(cfg *config.Config) settings.Manager {
			return settings.NewDiskv(cfg.SettingsPath)
		}),
		fx.Invoke(logger.Configure),

		infra.Module(),
		repo.Module(),
		service.Module(),
	}

	return opts
}
