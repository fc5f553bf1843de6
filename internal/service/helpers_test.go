package service

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// mockTx implements pgx.Tx for gomock-driven tests
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }
