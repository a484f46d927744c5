package payment

import (
	"context"
)

// RefundProvider is the outbound refund port. The resolution engine only ever
// asks for refunds against an existing charge; it never takes payments.
type RefundProvider interface {
	RefundPayment(ctx context.Context, request *RefundRequest) (*RefundResponse, error)
}

type RefundRequest struct {
	TransactionID string  `json:"transaction_id"` // payment intent the booking was charged on
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Reason        string  `json:"reason"`
}

type RefundResponse struct {
	RefundID  string  `json:"refund_id"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	CreatedAt int64   `json:"created_at"`
}
