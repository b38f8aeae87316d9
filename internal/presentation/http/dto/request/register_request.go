package request

import (
	"github.com/sangkips/register-api/pkg/denomination"
	"github.com/sangkips/register-api/pkg/money"
)

// OpenRegisterRequest carries the counted float. Details are checked for
// valid faces and counts and stored as declared; they need not add up to
// the opening amount.
type OpenRegisterRequest struct {
	OpeningAmount  *money.Money           `json:"opening_amount" binding:"required"`
	OpeningDetails denomination.Breakdown `json:"opening_details"`
}

// CloseRegisterRequest carries the end of shift count
type CloseRegisterRequest struct {
	ClosingAmount  *money.Money           `json:"closing_amount" binding:"required"`
	ClosingDetails denomination.Breakdown `json:"closing_details"`
	Print          bool                   `json:"print"`
}

// SessionListQuery filters the session history
type SessionListQuery struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
