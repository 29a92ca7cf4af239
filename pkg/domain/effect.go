package domain

import "time"

// Effect is the side effect a step asks the host to perform after the
// transition has been computed.
type Effect string

const (
	// EffectNone: persist the new session.
	EffectNone Effect = ""
	// EffectCommit: commit StepResult.Draft through the Ledger, then clear the session.
	EffectCommit Effect = "commit"
	// EffectDiscard: clear the session without committing.
	EffectDiscard Effect = "discard"
	// EffectRegister: register StepResult.Account, then clear the session.
	EffectRegister Effect = "register"
)

// StepResult is the outcome of feeding one message to the engine.
type StepResult struct {
	Session  Session
	Messages []string
	Effect   Effect

	// Draft is the finalized draft when Effect == EffectCommit.
	Draft *Draft
	// Account is the account to register when Effect == EffectRegister.
	Account *Account

	// Rejected is true when the input failed validation and the step was a self-loop.
	Rejected bool
}

// SaleStatus is the lifecycle status of a committed sale.
type SaleStatus string

const SaleCompleted SaleStatus = "completed"

// Sale is a committed transaction as recorded by the Ledger.
type Sale struct {
	ID            string     `json:"id"`
	DraftID       string     `json:"draft_id"`
	Identity      string     `json:"identity"`
	ClientName    string     `json:"client_name"`
	LineItems     []LineItem `json:"line_items"`
	PaymentMethod string     `json:"payment_method"`
	Total         float64    `json:"total"`
	Status        SaleStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewSale builds the ledger record for a confirmed draft.
func NewSale(id, identity string, d Draft, now time.Time) Sale {
	items := make([]LineItem, len(d.LineItems))
	copy(items, d.LineItems)
	return Sale{
		ID:            id,
		DraftID:       d.ID,
		Identity:      identity,
		ClientName:    d.ClientName,
		LineItems:     items,
		PaymentMethod: d.PaymentMethod,
		Total:         d.Total,
		Status:        SaleCompleted,
		CreatedAt:     now,
	}
}

// Account is an identity allowed to run the sales flow.
type Account struct {
	Identity     string    `json:"identity"`
	BusinessName string    `json:"business_name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}
