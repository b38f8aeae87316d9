package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMethod represents how a sale was tendered
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether m is a supported tender
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodCard
}

// ParsePaymentMethod is case-insensitive: "CASH", "Cash" and "cash" are equal.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("unknown payment method %q", s)
	}
	return m, nil
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	// Leave validation to the service so an unknown method is a validation
	// error rather than a malformed body.
	*m = PaymentMethod(strings.ToLower(strings.TrimSpace(str)))
	return nil
}
