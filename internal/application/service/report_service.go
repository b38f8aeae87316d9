package service

import (
	"context"
	"time"

	"github.com/sangkips/register-api/internal/domain/entity"
	"github.com/sangkips/register-api/pkg/apperror"
	"github.com/sangkips/register-api/pkg/money"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const transactionsSheet = "Transactions"

var transactionColumns = []string{
	"Receipt", "Date", "Method", "Items", "Quantity",
	"Subtotal", "Tax", "Total", "Tendered", "Change",
}

// ReportService builds downloadable reports from the ledger
type ReportService struct {
	sales *SalesService
	log   *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(sales *SalesService, log *zap.Logger) *ReportService {
	return &ReportService{sales: sales, log: log}
}

// ExportTransactions writes the transactions in range to an XLSX workbook
// with a totals row at the bottom.
func (s *ReportService) ExportTransactions(ctx context.Context, from, to *time.Time) ([]byte, error) {
	txns, err := s.sales.SalesInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := s.writeTransactions(f, txns); err != nil {
		s.log.Error("failed to build transaction export", zap.Error(err))
		return nil, apperror.NewAppError(500, "Failed to build export")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.log.Error("failed to write transaction export", zap.Error(err))
		return nil, apperror.NewAppError(500, "Failed to build export")
	}
	return buf.Bytes(), nil
}

func (s *ReportService) writeTransactions(f *excelize.File, txns []entity.Transaction) error {
	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return err
	}

	for i, title := range transactionColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(transactionsSheet, cell, title); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(transactionColumns), 1)
	if err := f.SetCellStyle(transactionsSheet, "A1", last, bold); err != nil {
		return err
	}

	var subtotal, tax, total, tendered, change money.Money
	for i, t := range txns {
		values := []interface{}{
			t.ReceiptNumber,
			t.Date.Format(time.RFC3339),
			string(t.Method),
			len(t.Items.Data()),
			t.Quantity,
			t.Subtotal.Float64(),
			t.Tax.Float64(),
			t.Total.Float64(),
			t.Tendered.Float64(),
			t.ChangeDue.Float64(),
		}
		if err := setRow(f, i+2, values); err != nil {
			return err
		}
		subtotal = subtotal.Add(t.Subtotal)
		tax = tax.Add(t.Tax)
		total = total.Add(t.Total)
		tendered = tendered.Add(t.Tendered)
		change = change.Add(t.ChangeDue)
	}

	totalRow := len(txns) + 2
	if err := setRow(f, totalRow, []interface{}{
		"TOTAL", "", "", "", "",
		subtotal.Float64(), tax.Float64(), total.Float64(), tendered.Float64(), change.Float64(),
	}); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, totalRow)
	if err := f.SetCellStyle(transactionsSheet, first, first, bold); err != nil {
		return err
	}

	firstAmount, _ := excelize.CoordinatesToCellName(6, 2)
	lastAmount, _ := excelize.CoordinatesToCellName(len(transactionColumns), totalRow)
	if err := f.SetCellStyle(transactionsSheet, firstAmount, lastAmount, amount); err != nil {
		return err
	}
	return f.SetColWidth(transactionsSheet, "A", "B", 24)
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(transactionsSheet, cell, &values)
}
