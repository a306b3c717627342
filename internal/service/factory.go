package service

import (
	"github.com/omnierp/taxengine/internal/config"
	"github.com/omnierp/taxengine/internal/domain/taxconfig"
	"github.com/omnierp/taxengine/internal/domain/taxrate"
	"github.com/omnierp/taxengine/internal/domain/taxregion"
	"github.com/omnierp/taxengine/internal/logger"
	"github.com/omnierp/taxengine/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	TaxConfigRepo taxconfig.Repository
	TaxRateRepo   taxrate.Repository
	TaxRegionRepo taxregion.Repository
}
