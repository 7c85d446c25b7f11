package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	apperrors "hms/pkg/errors"
)

type TransactionFunc func(ctx mongo.SessionContext) error

// TransactionManager runs a callback inside a mongo session transaction.
// The booking write path depends on this so the overlap check and the
// insert commit atomically.
type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type transactionManager struct {
	client *mongo.Client
}

func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &transactionManager{client: client}
}

func (m *transactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return apperrors.Unavailable("storage", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})
	if err == nil {
		return nil
	}

	if apperrors.IsAppError(err) {
		return err
	}
	if IsTransient(err) {
		return apperrors.Unavailable("storage", err)
	}
	return fmt.Errorf("transaction failed: %w", err)
}
