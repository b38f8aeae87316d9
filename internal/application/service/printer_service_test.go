package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sangkips/register-api/internal/domain/entity"
	"github.com/sangkips/register-api/internal/domain/enum"
	"github.com/sangkips/register-api/pkg/denomination"
	"github.com/sangkips/register-api/pkg/money"
	"go.uber.org/zap"
)

type recordingPrinter struct {
	jobs [][]byte
	err  error
}

func (p *recordingPrinter) Print(_ context.Context, data []byte) error {
	p.jobs = append(p.jobs, append([]byte(nil), data...))
	return p.err
}

func (p *recordingPrinter) IsConnected(context.Context) bool { return p.err == nil }

func TestPrintTransactionReceipt(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	txn, err := f.ledger.RecordSale(ctx, coffeeSale(enum.PaymentMethodCash, "40.00"))
	if err != nil {
		t.Fatal(err)
	}

	p := &recordingPrinter{}
	svc := NewPrinterService(p, "network", 32, entity.ReceiptHeader{StoreName: "Corner Shop"}, f.ledger, zap.NewNop())

	receipt, err := svc.PrintTransactionReceipt(ctx, txn.ID, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if receipt.ReceiptNumber != txn.ReceiptNumber || receipt.ChangeDue.String() != "7.52" {
		t.Errorf("receipt = %+v", receipt)
	}
	if len(p.jobs) != 1 {
		t.Fatalf("%d print jobs, want 1", len(p.jobs))
	}
	for _, want := range []string{"Corner Shop", "3x Coffee", "32.48", "Change:", "7.52", "alice"} {
		if !bytes.Contains(p.jobs[0], []byte(want)) {
			t.Errorf("receipt output missing %q", want)
		}
	}
}

func TestPrintReceiptPrinterFailureStillReturnsReceipt(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	txn, err := f.ledger.RecordSale(ctx, coffeeSale(enum.PaymentMethodCard, "32.48"))
	if err != nil {
		t.Fatal(err)
	}

	p := &recordingPrinter{err: errors.New("paper out")}
	svc := NewPrinterService(p, "usb", 32, entity.ReceiptHeader{StoreName: "Shop"}, f.ledger, zap.NewNop())

	receipt, err := svc.PrintTransactionReceipt(ctx, txn.ID, "")
	if err == nil {
		t.Fatal("expected printer error")
	}
	if receipt == nil || receipt.Total.String() != "32.48" {
		t.Errorf("receipt = %+v", receipt)
	}
	if svc.GetStatus(ctx).Connected {
		t.Error("failing printer reported connected")
	}
}

func TestPrintCloseSlip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if _, err := f.register.OpenSession(ctx, floatInput("100")); err != nil {
		t.Fatal(err)
	}
	counted, _ := denomination.FillBreakdown(money.MustParse("120.25"))
	summary, err := f.register.CloseSession(ctx, &CloseSessionInput{ClosingAmount: money.MustParse("120.25"), ClosingDetails: counted})
	if err != nil {
		t.Fatal(err)
	}

	p := &recordingPrinter{}
	svc := NewPrinterService(p, "network", 48, entity.ReceiptHeader{StoreName: "Shop"}, f.ledger, zap.NewNop())
	slip, err := svc.PrintCloseSlip(ctx, summary)
	if err != nil {
		t.Fatal(err)
	}
	if slip.Takeout.String() != "20.25" || slip.Variance.String() != "20.25" {
		t.Errorf("slip = %+v", slip)
	}
	for _, want := range []string{"REGISTER CLOSE", "Variance:", "100.00 x 1", "0.25 x 1"} {
		if !bytes.Contains(p.jobs[0], []byte(want)) {
			t.Errorf("slip output missing %q", want)
		}
	}
}
