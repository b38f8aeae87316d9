package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/register-api/internal/domain/entity"
	"github.com/sangkips/register-api/pkg/denomination"
	"github.com/sangkips/register-api/pkg/printer"
	"go.uber.org/zap"
)

const slipTimeLayout = "2006-01-02 15:04"

// PrinterService renders receipts and close slips to ESC/POS
type PrinterService struct {
	printer      printer.Printer
	printerType  string
	width        int
	header       entity.ReceiptHeader
	transactions *TransactionService
	log          *zap.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	printerType string,
	paperWidth int,
	header entity.ReceiptHeader,
	transactions *TransactionService,
	log *zap.Logger,
) *PrinterService {
	return &PrinterService{
		printer:      p,
		printerType:  printerType,
		width:        paperWidth,
		header:       header,
		transactions: transactions,
		log:          log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printerType,
	}
}

// PrintTransactionReceipt prints the receipt of a recorded sale. The
// receipt is returned even when printing fails so the caller can show it.
func (s *PrinterService) PrintTransactionReceipt(ctx context.Context, id uuid.UUID, cashier string) (*entity.Receipt, error) {
	txn, err := s.transactions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	receipt := entity.ReceiptFromTransaction(s.header, txn, cashier, slipTimeLayout)
	if err := s.printer.Print(ctx, FormatReceipt(&receipt, s.width)); err != nil {
		s.log.Warn("printer error", zap.String("transaction_id", id.String()), zap.Error(err))
		return &receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return &receipt, nil
}

// PrintCloseSlip prints the reconciliation of a just-closed session.
func (s *PrinterService) PrintCloseSlip(ctx context.Context, summary *CloseSummary) (*entity.CloseSlip, error) {
	slip := &entity.CloseSlip{
		Header:        s.header,
		SessionID:     summary.Session.ID.String(),
		OpenedAt:      summary.Session.OpenedAt.Format(slipTimeLayout),
		OpeningAmount: summary.OpeningAmount,
		SessionSales:  summary.SessionSales,
		CashSales:     summary.CashSales,
		ExpectedCash:  summary.ExpectedCash,
		ClosingAmount: summary.ClosingAmount,
		Variance:      summary.Variance,
		Takeout:       summary.Takeout,
	}
	if summary.Session.ClosedAt != nil {
		slip.ClosedAt = summary.Session.ClosedAt.Format(slipTimeLayout)
	}
	if summary.Session.ClosingDetails != nil {
		slip.Counted = summary.Session.ClosingDetails.Data()
	}

	if err := s.printer.Print(ctx, FormatCloseSlip(slip, s.width)); err != nil {
		s.log.Warn("printer error", zap.String("session_id", slip.SessionID), zap.Error(err))
		return slip, fmt.Errorf("failed to print close slip: %w", err)
	}
	return slip, nil
}

func writeHeader(doc *printer.Document, h entity.ReceiptHeader) {
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(h.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)
	if h.Address != "" {
		doc.Text(h.Address)
	}
	if h.Phone != "" {
		doc.Text(h.Phone)
	}
	if h.TaxID != "" {
		doc.TextF("Tax ID: %s", h.TaxID)
	}
	doc.SetAlign(printer.AlignLeft).Separator('-')
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)
	writeHeader(doc, r.Header)

	doc.KeyValue("Receipt:", r.ReceiptNumber).
		KeyValue("Date:", r.Date)
	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	doc.Separator('-')

	for _, line := range r.Lines {
		doc.ItemLine(line.Quantity, line.Name, line.Total.String())
		if line.Quantity > 1 {
			doc.TextF("  @ %s each", line.UnitPrice)
		}
	}
	doc.Separator('-')

	doc.KeyValue("Subtotal:", r.Subtotal.String())
	if !r.Tax.IsZero() {
		doc.KeyValue("Tax:", r.Tax.String())
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", r.Total.String()).
		SetBold(false).
		KeyValue("Paid ("+r.Method+"):", r.Tendered.String())
	if r.ChangeDue.IsPositive() {
		doc.KeyValue("Change:", r.ChangeDue.String())
	}

	doc.Separator('-').
		SetAlign(printer.AlignCenter).
		FeedLines(1).
		Text("Thank you for your business!").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()
	return doc.Bytes()
}

// FormatCloseSlip converts a CloseSlip into ESC/POS bytes.
func FormatCloseSlip(c *entity.CloseSlip, width int) []byte {
	doc := printer.NewDocument(width)
	writeHeader(doc, c.Header)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text("REGISTER CLOSE").
		SetBold(false).
		SetAlign(printer.AlignLeft).
		KeyValue("Opened:", c.OpenedAt).
		KeyValue("Closed:", c.ClosedAt).
		Separator('-').
		KeyValue("Opening float:", c.OpeningAmount.String()).
		KeyValue("Sales:", c.SessionSales.String()).
		KeyValue("Cash sales:", c.CashSales.String()).
		KeyValue("Expected cash:", c.ExpectedCash.String()).
		KeyValue("Counted:", c.ClosingAmount.String()).
		SetBold(true).
		KeyValue("Variance:", c.Variance.String()).
		SetBold(false).
		KeyValue("Takeout:", c.Takeout.String())

	if !c.Counted.IsEmpty() {
		doc.Separator('-')
		for _, counts := range []denomination.Denominations{c.Counted.Bills, c.Counted.Coins} {
			for _, face := range counts.Faces() {
				n := counts[face]
				doc.KeyValue(fmt.Sprintf("%s x %d", face, n), face.Mul(int64(n)).String())
			}
		}
	}

	doc.FeedLines(3).PartialCut()
	return doc.Bytes()
}
