// Package denomination converts bill and coin counts to amounts and back.
package denomination

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/sangkips/register-api/pkg/money"
)

var (
	// ErrInvalidCount is returned for negative, non-integer or oversized counts.
	ErrInvalidCount = errors.New("denomination: count must be a non-negative integer")
	// ErrInvalidFaceValue is returned for face values that are not positive,
	// not on the ladder, or listed twice.
	ErrInvalidFaceValue = errors.New("denomination: invalid face value")
)

// MaxCount caps the pieces of one face value in a single count.
const MaxCount = 1_000_000

// Ladders used by the register screens, largest first. The 1.00 face value
// appears in both: a one-unit bill and a one-unit coin are counted separately.
var (
	BillLadder = []money.Money{10000, 5000, 2000, 1000, 500, 200, 100}
	CoinLadder = []money.Money{100, 50, 25, 10, 5, 1}
)

// Denominations maps a face value to the number of pieces counted.
type Denominations map[money.Money]int

// Breakdown is the drawer count split into bills and coins.
type Breakdown struct {
	Bills Denominations `json:"bills"`
	Coins Denominations `json:"coins"`
}

// TotalOf sums face value times count in cents. Any positive face value is
// accepted; Breakdown.Total also checks faces against the ladders.
func TotalOf(d Denominations) (money.Money, error) {
	var total money.Money
	for face, count := range d {
		if face <= 0 {
			return money.Zero, fmt.Errorf("%w: %s", ErrInvalidFaceValue, face)
		}
		if count < 0 || count > MaxCount {
			return money.Zero, fmt.Errorf("%w: %d x %s", ErrInvalidCount, count, face)
		}
		line, err := face.CheckedMul(int64(count))
		if err == nil {
			total, err = total.CheckedAdd(line)
		}
		if err != nil {
			return money.Zero, fmt.Errorf("%w: %d x %s overflows", ErrInvalidCount, count, face)
		}
	}
	return total, nil
}

// Total sums bills and coins. Every face must be on its ladder.
func (b Breakdown) Total() (money.Money, error) {
	if err := onLadder(b.Bills, BillLadder, "bill"); err != nil {
		return money.Zero, err
	}
	if err := onLadder(b.Coins, CoinLadder, "coin"); err != nil {
		return money.Zero, err
	}
	bills, err := TotalOf(b.Bills)
	if err != nil {
		return money.Zero, err
	}
	coins, err := TotalOf(b.Coins)
	if err != nil {
		return money.Zero, err
	}
	total, err := bills.CheckedAdd(coins)
	if err != nil {
		return money.Zero, fmt.Errorf("%w: drawer total overflows", ErrInvalidCount)
	}
	return total, nil
}

func onLadder(d Denominations, ladder []money.Money, kind string) error {
	for face := range d {
		if !slices.Contains(ladder, face) {
			return fmt.Errorf("%w: no %s of %s", ErrInvalidFaceValue, kind, face)
		}
	}
	return nil
}

// Faces returns the face values with a non-zero count, largest first.
func (d Denominations) Faces() []money.Money {
	faces := make([]money.Money, 0, len(d))
	for face, n := range d {
		if n != 0 {
			faces = append(faces, face)
		}
	}
	sort.Slice(faces, func(i, j int) bool { return faces[i] > faces[j] })
	return faces
}

// IsEmpty reports whether nothing was counted.
func (b Breakdown) IsEmpty() bool {
	return len(b.Bills) == 0 && len(b.Coins) == 0
}

// FillGreedy assigns the largest possible count of each face value in ladder
// order and returns whatever could not be assigned. The ladder must be sorted
// descending; greedy is only optimal for canonical ladders such as the ones above.
func FillGreedy(target money.Money, ladder []money.Money) (Denominations, money.Money) {
	out := make(Denominations)
	remaining := target
	for _, face := range ladder {
		if face <= 0 || remaining < face {
			continue
		}
		count := remaining / face
		out[face] = int(count)
		remaining -= count * face
	}
	return out, remaining
}

// FillBreakdown fills bills first, then coins with what is left over.
func FillBreakdown(target money.Money) (Breakdown, money.Money) {
	bills, remaining := FillGreedy(target, BillLadder)
	coins, remaining := FillGreedy(remaining, CoinLadder)
	return Breakdown{Bills: bills, Coins: coins}, remaining
}

// UnmarshalJSON rejects fractional or oversized counts instead of truncating
// them, and face values that repeat once normalised ("0.5" and "0.50").
func (d *Denominations) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if tok, err := dec.Token(); err != nil {
		return err
	} else if tok != json.Delim('{') {
		return fmt.Errorf("denomination: expected an object, got %v", tok)
	}

	out := make(Denominations)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		face, err := money.Parse(key)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidFaceValue, key)
		}
		if _, dup := out[face]; dup {
			return fmt.Errorf("%w: %s listed twice", ErrInvalidFaceValue, face)
		}

		var n json.Number
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidCount, face, err)
		}
		count, err := n.Int64()
		if err != nil || count < 0 || count > MaxCount {
			return fmt.Errorf("%w: %s x %s", ErrInvalidCount, n, face)
		}
		out[face] = int(count)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = out
	return nil
}
