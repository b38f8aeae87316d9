package entity

import (
	"github.com/sangkips/register-api/pkg/denomination"
	"github.com/sangkips/register-api/pkg/money"
)

// ReceiptHeader holds the store header printed at the top of a slip.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptLine is a single item line on a sale receipt.
type ReceiptLine struct {
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	UnitPrice money.Money `json:"unit_price"`
	Total     money.Money `json:"total"`
}

// Receipt is a printable view of a Transaction. It is composed at print
// time and never stored.
type Receipt struct {
	Header        ReceiptHeader `json:"header"`
	ReceiptNumber string        `json:"receipt_number"`
	Date          string        `json:"date"`
	Cashier       string        `json:"cashier,omitempty"`
	Method        string        `json:"method"`
	Lines         []ReceiptLine `json:"lines"`
	Subtotal      money.Money   `json:"subtotal"`
	Tax           money.Money   `json:"tax"`
	Total         money.Money   `json:"total"`
	Tendered      money.Money   `json:"tendered"`
	ChangeDue     money.Money   `json:"change_due"`
}

// ReceiptFromTransaction builds the printable view of txn
func ReceiptFromTransaction(header ReceiptHeader, txn *Transaction, cashier, dateLayout string) Receipt {
	items := txn.Items.Data()
	lines := make([]ReceiptLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, ReceiptLine{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.LineTotal(),
		})
	}
	return Receipt{
		Header:        header,
		ReceiptNumber: txn.ReceiptNumber,
		Date:          txn.Date.Format(dateLayout),
		Cashier:       cashier,
		Method:        string(txn.Method),
		Lines:         lines,
		Subtotal:      txn.Subtotal,
		Tax:           txn.Tax,
		Total:         txn.Total,
		Tendered:      txn.Tendered,
		ChangeDue:     txn.ChangeDue,
	}
}

// CloseSlip is the printable summary handed over when the drawer is closed.
type CloseSlip struct {
	Header        ReceiptHeader          `json:"header"`
	SessionID     string                 `json:"session_id"`
	OpenedAt      string                 `json:"opened_at"`
	ClosedAt      string                 `json:"closed_at"`
	OpeningAmount money.Money            `json:"opening_amount"`
	SessionSales  money.Money            `json:"session_sales"`
	CashSales     money.Money            `json:"cash_sales"`
	ExpectedCash  money.Money            `json:"expected_cash"`
	ClosingAmount money.Money            `json:"closing_amount"`
	Variance      money.Money            `json:"variance"`
	Takeout       money.Money            `json:"takeout"`
	Counted       denomination.Breakdown `json:"counted"`
}
