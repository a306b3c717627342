package repository

import (
	"github.com/omnierp/taxengine/internal/domain/taxconfig"
	"github.com/omnierp/taxengine/internal/domain/taxrate"
	"github.com/omnierp/taxengine/internal/domain/taxregion"
	"github.com/omnierp/taxengine/internal/logger"
	"github.com/omnierp/taxengine/internal/postgres"
	pgrepo "github.com/omnierp/taxengine/internal/repository/postgres"
)

func NewTaxConfigRepository(db *postgres.DB, logger *logger.Logger) taxconfig.Repository {
	return pgrepo.NewTaxConfigRepository(db, logger)
}

func NewTaxRateRepository(db *postgres.DB, logger *logger.Logger) taxrate.Repository {
	return pgrepo.NewTaxRateRepository(db, logger)
}

func NewTaxRegionRepository(db *postgres.DB, logger *logger.Logger) taxregion.Repository {
	return pgrepo.NewTaxRegionRepository(db, logger)
}
