// Command importexcel loads SalesOrderHeader and SalesOrderDetail sheets
// from an AdventureWorks-style workbook into the order store.
//
// Usage: importexcel [-reset] <workbook.xlsx>
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-orders/internal/common"
	"github.com/joseph-ayodele/invoice-orders/internal/entity"
	"github.com/joseph-ayodele/invoice-orders/internal/normalize"
	"github.com/joseph-ayodele/invoice-orders/internal/repository"
)

const (
	headerSheet = "SalesOrderHeader"
	detailSheet = "SalesOrderDetail"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	reset := flag.Bool("reset", false, "delete existing orders before importing")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: importexcel [-reset] <workbook.xlsx>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	_ = godotenv.Load()
	cfg := common.LoadConfig()

	ctx := context.Background()
	db, err := repository.Open(ctx, repository.Config{DSN: cfg.Database.DSN}, logger)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer repository.Close(db, logger)
	store := repository.NewStore(db, repository.Config{DSN: cfg.Database.DSN}, logger)

	wb, err := excelize.OpenFile(path)
	if err != nil {
		logger.Error("open workbook", "path", path, "error", err)
		os.Exit(1)
	}
	defer func() { _ = wb.Close() }()

	headers, err := readHeaders(wb)
	if err != nil {
		logger.Error("read header sheet", "error", err)
		os.Exit(1)
	}
	details, err := readDetails(wb)
	if err != nil {
		logger.Error("read detail sheet", "error", err)
		os.Exit(1)
	}

	if *reset {
		if err := store.ResetOrders(ctx); err != nil {
			logger.Error("reset orders", "error", err)
			os.Exit(1)
		}
	}

	nh, nd, err := store.ImportOrders(ctx, headers, details)
	if err != nil {
		logger.Error("import orders", "error", err)
		os.Exit(1)
	}
	fmt.Printf("imported %d headers, %d details from %s\n", nh, nd, path)
}

// sheetRows returns the sheet as column-name-keyed maps, one per data row.
func sheetRows(wb *excelize.File, sheet string) ([]map[string]string, error) {
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}
	cols := rows[0]
	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		m := make(map[string]string, len(cols))
		for i, name := range cols {
			if i < len(row) {
				m[name] = row[i]
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func readHeaders(wb *excelize.File) ([]entity.Header, error) {
	rows, err := sheetRows(wb, headerSheet)
	if err != nil {
		return nil, err
	}
	headers := make([]entity.Header, 0, len(rows))
	for _, m := range rows {
		h := entity.Header{
			SalesOrderID:           cellInt(m["SalesOrderID"]),
			RevisionNumber:         cellInt(m["RevisionNumber"]),
			OrderDate:              cellDate(m["OrderDate"]),
			DueDate:                cellDate(m["DueDate"]),
			ShipDate:               cellDate(m["ShipDate"]),
			Status:                 cellInt(m["Status"]),
			OnlineOrderFlag:        cellInt(m["OnlineOrderFlag"]),
			SalesOrderNumber:       cellStr(m["SalesOrderNumber"]),
			PurchaseOrderNumber:    cellStr(m["PurchaseOrderNumber"]),
			AccountNumber:          cellStr(m["AccountNumber"]),
			CustomerID:             cellInt(m["CustomerID"]),
			SalesPersonID:          cellStr(m["SalesPersonID"]),
			TerritoryID:            cellStr(m["TerritoryID"]),
			BillToAddressID:        cellStr(m["BillToAddressID"]),
			ShipToAddressID:        cellStr(m["ShipToAddressID"]),
			ShipMethodID:           cellStr(m["ShipMethodID"]),
			CreditCardID:           cellStr(m["CreditCardID"]),
			CreditCardApprovalCode: cellStr(m["CreditCardApprovalCode"]),
			CurrencyRateID:         cellStr(m["CurrencyRateID"]),
			SubTotal:               cellFloat(m["SubTotal"]),
			TaxAmt:                 cellFloat(m["TaxAmt"]),
			Freight:                cellFloat(m["Freight"]),
			TotalDue:               cellFloat(m["TotalDue"]),
		}
		if h.SalesOrderID == nil {
			continue
		}
		headers = append(headers, h)
	}
	return headers, nil
}

func readDetails(wb *excelize.File) (map[int64][]entity.Detail, error) {
	rows, err := sheetRows(wb, detailSheet)
	if err != nil {
		return nil, err
	}
	details := make(map[int64][]entity.Detail)
	for _, m := range rows {
		id := cellInt(m["SalesOrderID"])
		if id == nil {
			continue
		}
		details[*id] = append(details[*id], entity.Detail{
			CarrierTrackingNumber: cellStr(m["CarrierTrackingNumber"]),
			OrderQty:              cellInt(m["OrderQty"]),
			ProductID:             cellStr(m["ProductID"]),
			ProductName:           cellStr(m["ProductName"]),
			SpecialOfferID:        cellStr(m["SpecialOfferID"]),
			UnitPrice:             cellFloat(m["UnitPrice"]),
			UnitPriceDiscount:     cellFloat(m["UnitPriceDiscount"]),
			LineTotal:             cellFloat(m["LineTotal"]),
		})
	}
	return details, nil
}

func cellStr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func cellInt(v string) *int64 { return normalize.SafeInt(v) }

func cellFloat(v string) *float64 { return normalize.SafeFloat(v) }

// cellDate accepts both formatted date strings and raw Excel serial values.
func cellDate(v string) *string {
	if v == "" {
		return nil
	}
	if d := normalize.ParseDate(v); d != nil {
		return d
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			s := t.Format(time.DateOnly)
			return &s
		}
	}
	return nil
}
