// Package mongo runs repository work inside MongoDB multi-document
// transactions.
package mongo

import (
	"context"
	"errors"
	"fmt"

	apperrors "toolrent/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// TransactionFunc must issue every operation with the SessionContext it is
// given. WithTransaction may call it more than once.
type TransactionFunc func(ctx mongo.SessionContext) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
	opts   *options.TransactionOptions
}

// DefaultTransactionOptions reads and commits at majority on the primary, so
// a booking committed by one admission is seen by the next one's read.
func DefaultTransactionOptions() *options.TransactionOptions {
	return options.Transaction().
		SetReadConcern(readconcern.Majority()).
		SetWriteConcern(writeconcern.Majority()).
		SetReadPreference(readpref.Primary())
}

func NewTransactionManager(client *mongo.Client) TransactionManager {
	return NewTransactionManagerWithOptions(client, DefaultTransactionOptions())
}

func NewTransactionManagerWithOptions(client *mongo.Client, opts *options.TransactionOptions) TransactionManager {
	return &mongoTransactionManager{
		client: client,
		opts:   opts,
	}
}

func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(context.WithoutCancel(ctx))

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	}, m.opts)

	return transactionError(err)
}

// transactionError keeps domain errors raised inside the callback intact so
// the service layer can map them.
func transactionError(err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout("Transaction timed out")
	default:
		return fmt.Errorf("transaction failed: %w", err)
	}
}
