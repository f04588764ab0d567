package services

import (
	"context"
	"fmt"
	appContext "hosteldesk/internal/context"
	"hosteldesk/internal/database"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
)

// TransactionExecutor is what the domain services depend on; tests swap in a
// snapshotting fake so invariant checks can run without a database.
type TransactionExecutor interface {
	// Execute runs fn inside a database transaction, committing on nil and
	// rolling back on error or panic.
	Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error

	// DB returns a non-transactional handle for single-statement reads.
	DB(ctx context.Context) *gorm.DB
}

// TransactionService handles database transactions using context injection
type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// DB returns the transaction carried by the context when one is active, so
// reads issued mid-transaction see that transaction's writes.
func (ts *TransactionService) DB(ctx context.Context) *gorm.DB {
	if tx, ok := appContext.GetTransaction(ctx); ok {
		return tx
	}
	return ts.db.SQLWithContext(ctx)
}

// Execute runs the provided function within a database transaction.
// Automatically handles commit/rollback based on function result. Panics are
// converted to errors unless rollback fails, which crashes the service for
// data safety.
func (ts *TransactionService) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) (err error) {
	log := ts.log.Function("Execute")

	tx := ts.db.SQLWithContext(ctx).Begin()
	if tx.Error != nil {
		return log.Err("failed to begin transaction", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			panicErr := log.ErrMsg("panic during transaction: " + fmt.Sprintf("%v", r))
			log.Er("panic during transaction, rolling back", panicErr)

			if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
				// Data integrity at risk, crash the service
				log.Er("CRITICAL: failed to rollback after panic", rollbackErr, "panic", r)
				panic(
					fmt.Sprintf(
						"transaction rollback failed: %v (original panic: %v)",
						rollbackErr,
						r,
					),
				)
			}

			log.Info("transaction rolled back successfully after panic")
			err = panicErr
		}
	}()

	if err = fn(appContext.WithTransaction(ctx, tx), tx); err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			log.Er("CRITICAL: failed to rollback after function error", rollbackErr, "originalError", err)
			return log.Error("transaction rollback failed", "rollbackError", rollbackErr, "originalError", err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return log.Err("failed to commit transaction", err)
	}

	return nil
}
