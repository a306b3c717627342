package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/omnierp/taxengine/internal/config"
	"github.com/omnierp/taxengine/internal/logger"
	"github.com/omnierp/taxengine/internal/types"
	"github.com/omnierp/taxengine/internal/validator"
)

// Stores holds the in-memory repositories shared by service tests
type Stores struct {
	TaxConfigRepo *InMemoryTaxConfigStore
	TaxRateRepo   *InMemoryTaxRateStore
	TaxRegionRepo *InMemoryTaxRegionStore
}

// BaseServiceTestSuite provides common setup for service tests: a tenant
// scoped context, in-memory stores and a no-op transactional client
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	cfg    *config.Configuration
	logger *logger.Logger
	db     *MockPostgresClient
	stores Stores
}

func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()
	s.cfg = config.GetDefaultConfig()

	var err error
	s.logger, err = logger.NewLogger(s.cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
}

func (s *BaseServiceTestSuite) TearDownTest() {
	s.ClearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = context.Background()
	s.ctx = context.WithValue(s.ctx, types.CtxTenantID, types.DefaultTenantID)
	s.ctx = context.WithValue(s.ctx, types.CtxUserID, types.DefaultUserID)
	s.ctx = context.WithValue(s.ctx, types.CtxRequestID, types.GenerateUUID())
}

func (s *BaseServiceTestSuite) setupStores() {
	s.db = NewMockPostgresClient()
	s.stores = Stores{
		TaxConfigRepo: NewInMemoryTaxConfigStore(),
		TaxRateRepo:   NewInMemoryTaxRateStore(),
		TaxRegionRepo: NewInMemoryTaxRegionStore(),
	}
}

// ClearStores resets every store to an empty state
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores.TaxConfigRepo.Clear()
	s.stores.TaxRateRepo.Clear()
	s.stores.TaxRegionRepo.Clear()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// SetContextTenant rescopes the suite context to another tenant, used by
// tenant isolation tests
func (s *BaseServiceTestSuite) SetContextTenant(tenantID string) {
	s.ctx = context.WithValue(s.ctx, types.CtxTenantID, tenantID)
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetDB() *MockPostgresClient {
	return s.db
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}
