package repository

import (
	"context"

	"github.com/joseph-ayodele/invoice-orders/internal/common"
	"github.com/joseph-ayodele/invoice-orders/internal/entity"
)

// ResetOrders empties the three order tables. Used by the bulk importer
// before loading a fresh dataset.
func (s *Store) ResetOrders(ctx context.Context) error {
	for _, table := range []string{"SalesOrderDetail", "Documents", "SalesOrderHeader"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return common.WrapError(err, "reset "+table)
		}
	}
	s.log.Info("orders.reset")
	return nil
}

// ImportOrders bulk-inserts header and detail rows keyed by SalesOrderID.
// Unlike InsertOrder it writes no document row; imported datasets have no
// source invoice. The whole import is one transaction.
func (s *Store) ImportOrders(ctx context.Context, headers []entity.Header, details map[int64][]entity.Detail) (int, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, common.WrapError(err, "begin import")
	}
	defer func() { _ = tx.Rollback() }()

	nd := 0
	for _, h := range headers {
		if h.SalesOrderID == nil {
			continue
		}
		if err := s.insertHeader(ctx, tx, h); err != nil {
			return 0, 0, err
		}
		for _, it := range details[*h.SalesOrderID] {
			if err := s.insertDetail(ctx, tx, *h.SalesOrderID, it); err != nil {
				return 0, 0, err
			}
			nd++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, common.WrapError(err, "commit import")
	}
	s.log.Info("orders.import.ok", "headers", len(headers), "details", nd)
	return len(headers), nd, nil
}
