package request

// PrintReceiptRequest is the request body for printing a receipt.
type PrintReceiptRequest struct {
	TransactionID string `json:"transaction_id" binding:"required,uuid"`
}
