package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifemanager/internal/transaction"
)

type transactionResponse struct {
	ID          int                  `json:"id"`
	Type        transaction.Type     `json:"type"`
	Description string               `json:"description"`
	Amount      decimal.Decimal      `json:"amount"`
	Signed      decimal.Decimal      `json:"signedAmount"`
	Category    transaction.Category `json:"category"`
	Essential   bool                 `json:"essential"`
	Date        time.Time            `json:"date"`
	CreatedAt   time.Time            `json:"createdAt"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Type:        tx.Type,
		Description: tx.Description,
		Amount:      tx.Amount,
		Signed:      tx.Signed(),
		Category:    tx.Category,
		Essential:   tx.Category.Essential(),
		Date:        tx.Date,
		CreatedAt:   tx.CreatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
