// Package worker runs the ledger export pipeline: it consumes ledger
// sync messages and appends the referenced transactions to the
// spreadsheet.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"timemanager/internal/amqp"
	"timemanager/internal/core"
	"timemanager/internal/kv"
	"timemanager/internal/log"
	"timemanager/internal/sheets"
)

// TransactionFinder resolves a ledger entry by id. Implementations read
// fresh state on every call; the dashboard process may have written new
// entries since the worker started.
type TransactionFinder interface {
	FindTransaction(ctx context.Context, id int64) (core.Transaction, bool, error)
}

// KVFinder reads the transaction collection straight from the shared
// persistence store.
type KVFinder struct {
	store kv.Store
}

var _ TransactionFinder = (*KVFinder)(nil)

func NewKVFinder(store kv.Store) *KVFinder {
	return &KVFinder{store: store}
}

func (f *KVFinder) FindTransaction(ctx context.Context, id int64) (core.Transaction, bool, error) {
	raw, ok, err := f.store.Get(ctx, kv.KeyTransactions)
	if err != nil {
		return core.Transaction{}, false, fmt.Errorf("read transactions: %w", err)
	}
	if !ok {
		return core.Transaction{}, false, nil
	}
	var txns []core.Transaction
	if err := json.Unmarshal([]byte(raw), &txns); err != nil {
		return core.Transaction{}, false, fmt.Errorf("decode transactions: %w", err)
	}
	for _, t := range txns {
		if t.ID == id {
			return t, true, nil
		}
	}
	return core.Transaction{}, false, nil
}

// ExportWorker appends queued ledger entries to the spreadsheet.
type ExportWorker struct {
	finder TransactionFinder
	writer sheets.LedgerWriter
	logger *log.Logger
}

func NewExportWorker(finder TransactionFinder, writer sheets.LedgerWriter, logger *log.Logger) *ExportWorker {
	return &ExportWorker{
		finder: finder,
		writer: writer,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleSyncMessage processes one queued ledger entry. A missing entry is
// dropped with a warning; requeueing it would loop forever. A writer
// failure is returned so the delivery is requeued.
func (w *ExportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.LedgerEntrySyncMessage) error {
	txn, found, err := w.finder.FindTransaction(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("find transaction %d: %w", msg.ID, err)
	}
	if !found {
		w.logger.WarnContext(ctx, "Queued ledger entry no longer in store, dropping",
			log.FieldTxnID, msg.ID)
		return nil
	}

	ref, err := w.writer.Append(ctx, txn)
	if err != nil {
		return fmt.Errorf("export transaction %d: %w", msg.ID, err)
	}

	w.logger.InfoContext(ctx, "Ledger entry exported",
		log.FieldOperation, log.OpExport, log.FieldTxnID, msg.ID, "row_ref", ref)
	return nil
}
