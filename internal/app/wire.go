//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/trendarr/internal/config"
)

// InitializeApp builds the application. The returned cleanup closes the
// watchlist store and flushes the tracer.
func InitializeApp(cfg *config.Config, logger *logrus.Logger, version Version) (*App, func(), error) {
	wire.Build(ProviderSet, NewApp)
	return nil, nil, nil
}
