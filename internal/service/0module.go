package service

import (
	"go.uber.org/fx"
)

func Module() fx.Option {
	opts := []fx.Option{
		fx.Provide(
			NewStaging,
			NewFlusher,
			NewDeliverer,
			NewAggregator,
		),
	}
	return fx.Module("service", opts...)
}
