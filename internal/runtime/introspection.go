package runtime

import (
	"github.com/aretw0/tendero/pkg/domain"
)

// Prompt returns the question the session is currently waiting on.
// Hosts re-emit it when a conversation is resumed.
func (e *Engine) Prompt(s domain.Session) string {
	switch s.State {
	case domain.StateAwaitingClientName:
		return msgAskClientName
	case domain.StateAwaitingDescription:
		return msgAskDescription
	case domain.StateAwaitingUnitType:
		return unitTypeMenu()
	case domain.StateAwaitingQuantity:
		if s.Draft != nil && s.Draft.Pending != nil && s.Draft.Pending.UnitType != "" {
			return askQuantity(s.Draft.Pending.UnitType)
		}
		return msgInvalidQuantity
	case domain.StateAwaitingPrice:
		return msgAskPrice
	case domain.StateAwaitingProductAction:
		if s.Draft != nil {
			return cartWithMenu(s.Draft.LineItems)
		}
		return productActionMenu()
	case domain.StateEditingCart:
		if s.Draft != nil {
			return msgAskRemoval + "\n\n" + RenderRemovalList(s.Draft.LineItems)
		}
		return msgAskRemoval
	case domain.StateAwaitingPayment:
		return paymentMethodMenu()
	case domain.StateConfirming:
		if s.Draft != nil {
			return confirmationSummary(s.Draft)
		}
		return msgInvalidConfirmation
	case domain.StateAwaitingEmail:
		return msgAskEmail
	}
	return msgWelcome
}

// PromptRegistration is Prompt for an identity that is not authorized.
func (e *Engine) PromptRegistration(s domain.Session) string {
	if s.State == domain.StateAwaitingEmail {
		return msgAskEmail
	}
	return msgUnregistered
}

// States returns the transition graph of both flows.
func (e *Engine) States() []domain.Edge {
	return []domain.Edge{
		{From: domain.StateInitial, To: domain.StateAwaitingClientName, Condition: "nueva venta"},
		{From: domain.StateAwaitingClientName, To: domain.StateAwaitingDescription, Condition: "client name"},
		{From: domain.StateAwaitingDescription, To: domain.StateAwaitingUnitType, Condition: "description"},
		{From: domain.StateAwaitingUnitType, To: domain.StateAwaitingQuantity, Condition: "unit 1-4"},
		{From: domain.StateAwaitingQuantity, To: domain.StateAwaitingPrice, Condition: "quantity"},
		{From: domain.StateAwaitingPrice, To: domain.StateAwaitingProductAction, Condition: "price"},
		{From: domain.StateAwaitingProductAction, To: domain.StateAwaitingDescription, Condition: "1 add"},
		{From: domain.StateAwaitingProductAction, To: domain.StateEditingCart, Condition: "2 remove"},
		{From: domain.StateAwaitingProductAction, To: domain.StateAwaitingPayment, Condition: "3 finish"},
		{From: domain.StateEditingCart, To: domain.StateAwaitingProductAction, Condition: "item number"},
		{From: domain.StateAwaitingPayment, To: domain.StateConfirming, Condition: "payment 1-5"},
		{From: domain.StateConfirming, To: domain.StateInitial, Condition: "sí: commit"},
		{From: domain.StateConfirming, To: domain.StateInitial, Condition: "no: discard"},
		{From: domain.StateInitial, To: domain.StateAwaitingEmail, Condition: "registrar <negocio>"},
		{From: domain.StateAwaitingEmail, To: domain.StateInitial, Condition: "email: register"},
	}
}
