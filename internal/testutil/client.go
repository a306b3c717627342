package testutil

import (
	"context"

	"github.com/omnierp/taxengine/internal/postgres"
)

// MockPostgresClient satisfies postgres.IClient without a database. The
// in-memory stores are not transactional, so WithTx just runs the function.
type MockPostgresClient struct{}

var _ postgres.IClient = (*MockPostgresClient)(nil)

func NewMockPostgresClient() *MockPostgresClient {
	return &MockPostgresClient{}
}

func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
