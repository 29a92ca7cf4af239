package domain

import "time"

// StateID identifies a step of the conversation.
type StateID string

const (
	StateInitial               StateID = "INITIAL"
	StateAwaitingClientName    StateID = "AWAITING_CLIENT_NAME"
	StateAwaitingDescription   StateID = "AWAITING_DESCRIPTION"
	StateAwaitingUnitType      StateID = "AWAITING_UNIT_TYPE"
	StateAwaitingQuantity      StateID = "AWAITING_QUANTITY"
	StateAwaitingPrice         StateID = "AWAITING_PRICE"
	StateAwaitingProductAction StateID = "AWAITING_PRODUCT_ACTION"
	StateEditingCart           StateID = "EDITING_CART"
	StateAwaitingPayment       StateID = "AWAITING_PAYMENT_METHOD"
	StateConfirming            StateID = "CONFIRMING"

	// StateAwaitingEmail belongs to the registration sub-flow run for
	// identities that are not yet authorized.
	StateAwaitingEmail StateID = "AWAITING_EMAIL"
)

// SalesStates lists the states of the sales flow in the order they are visited.
var SalesStates = []StateID{
	StateInitial,
	StateAwaitingClientName,
	StateAwaitingDescription,
	StateAwaitingUnitType,
	StateAwaitingQuantity,
	StateAwaitingPrice,
	StateAwaitingProductAction,
	StateEditingCart,
	StateAwaitingPayment,
	StateConfirming,
}

// IsRegistration reports whether the state belongs to the registration sub-flow.
func (s StateID) IsRegistration() bool {
	return s == StateAwaitingEmail
}

// Registration holds what the registration sub-flow has collected so far.
type Registration struct {
	BusinessName string `json:"business_name"`
}

// Session is the per-identity pointer into the state machine plus its draft.
type Session struct {
	State        StateID       `json:"state"`
	Draft        *Draft        `json:"draft,omitempty"`
	Registration *Registration `json:"registration,omitempty"`

	// UpdatedAt is stamped by the session manager on every write and drives
	// the idle-expiry policy.
	UpdatedAt time.Time `json:"updated_at"`

	// Sealed carries the encrypted session when a store is wrapped by the
	// encryption middleware. Draft and Registration are empty in that case.
	Sealed string `json:"sealed,omitempty"`
}

// NewSession returns the default session of an identity that has never
// written anything: INITIAL, no draft.
func NewSession() Session {
	return Session{State: StateInitial}
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	out := s
	if s.Draft != nil {
		d := s.Draft.Clone()
		out.Draft = &d
	}
	if s.Registration != nil {
		r := *s.Registration
		out.Registration = &r
	}
	return out
}
