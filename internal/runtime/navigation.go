package runtime

import (
	"github.com/aretw0/tendero/pkg/domain"
)

func (e *Engine) handleInitial(s *domain.Session, input string) (outcome, error) {
	if !isCommand(input, "nueva venta", "start sale") {
		return outcome{}, reject(domain.ErrUnknownCommand, msgWelcome)
	}
	s.Draft = domain.NewDraft(e.newID(), e.now())
	s.State = domain.StateAwaitingClientName
	return reply(msgAskClientName), nil
}

func (e *Engine) handleClientName(s *domain.Session, input string) (outcome, error) {
	if input == "" {
		return outcome{}, reject(domain.ErrEmptyInput, msgAskClientName)
	}
	s.Draft.ClientName = input
	s.State = domain.StateAwaitingDescription
	return reply(msgAskDescription), nil
}

func (e *Engine) handleDescription(s *domain.Session, input string) (outcome, error) {
	if input == "" {
		return outcome{}, reject(domain.ErrEmptyInput, msgAskDescription)
	}
	s.Draft.Pending = &domain.LineItem{Description: input}
	s.State = domain.StateAwaitingUnitType
	return reply(unitTypeMenu()), nil
}

func (e *Engine) handleUnitType(s *domain.Session, input string) (outcome, error) {
	k, err := ParseSelector(input, len(domain.UnitTypes))
	if err != nil {
		return outcome{}, reject(err, msgInvalidUnitType)
	}
	unit := domain.UnitTypes[k-1]
	s.Draft.Pending.UnitType = unit
	s.State = domain.StateAwaitingQuantity
	return reply(askQuantity(unit)), nil
}

func (e *Engine) handleQuantity(s *domain.Session, input string) (outcome, error) {
	qty, err := ParseAmount(input)
	if err != nil {
		return outcome{}, reject(err, msgInvalidQuantity)
	}
	s.Draft.Pending.Quantity = qty
	s.State = domain.StateAwaitingPrice
	return reply(msgAskPrice), nil
}

func (e *Engine) handlePrice(s *domain.Session, input string) (outcome, error) {
	price, err := ParseAmount(input)
	if err != nil {
		return outcome{}, reject(err, msgInvalidPrice)
	}
	item := *s.Draft.Pending
	item.Price = price
	s.Draft.LineItems = append(s.Draft.LineItems, item)
	s.Draft.Pending = nil
	s.State = domain.StateAwaitingProductAction
	return reply(cartWithMenu(s.Draft.LineItems)), nil
}

func (e *Engine) handleProductAction(s *domain.Session, input string) (outcome, error) {
	k, err := ParseSelector(input, len(domain.ProductActions))
	if err != nil {
		return outcome{}, reject(err, msgInvalidAction)
	}

	switch domain.ProductAction(k) {
	case domain.ActionAddProduct:
		s.State = domain.StateAwaitingDescription
		return reply(msgAskNextProduct), nil

	case domain.ActionRemoveProduct:
		if len(s.Draft.LineItems) == 0 {
			return reply(msgNothingToRemove), nil
		}
		s.State = domain.StateEditingCart
		return reply(msgAskRemoval + "\n\n" + RenderRemovalList(s.Draft.LineItems)), nil

	default: // ActionFinishSale
		s.State = domain.StateAwaitingPayment
		return reply(paymentMethodMenu()), nil
	}
}

func (e *Engine) handleEditingCart(s *domain.Session, input string) (outcome, error) {
	if len(s.Draft.LineItems) == 0 {
		// Only reachable through a foreign writer; nothing to pick from.
		s.State = domain.StateAwaitingProductAction
		return reply(msgNothingToRemove + "\n\n" + productActionMenu()), nil
	}

	k, err := ParseSelector(input, len(s.Draft.LineItems))
	if err != nil {
		return outcome{}, reject(err, msgInvalidRemoval)
	}
	removed, _ := s.Draft.RemoveAt(k - 1)
	s.State = domain.StateAwaitingProductAction
	return reply(msgRemoved + removed.Description + "\n\n" + cartWithMenu(s.Draft.LineItems)), nil
}

func (e *Engine) handlePaymentMethod(s *domain.Session, input string) (outcome, error) {
	k, err := ParseSelector(input, len(domain.PaymentMethods))
	if err != nil {
		return outcome{}, reject(err, msgInvalidPayment)
	}
	s.Draft.PaymentMethod = domain.PaymentMethods[k-1]
	s.Draft.Total = s.Draft.ComputeTotal()
	s.State = domain.StateConfirming
	return reply(confirmationSummary(s.Draft)), nil
}

func (e *Engine) handleConfirming(s *domain.Session, input string) (outcome, error) {
	switch {
	case IsAffirmative(input):
		// The reply depends on the Ledger; see Outcome.
		return outcome{effect: domain.EffectCommit}, nil
	case IsNegative(input):
		return outcome{messages: []string{msgSaleCancelled}, effect: domain.EffectDiscard}, nil
	}
	return outcome{}, reject(domain.ErrInvalidSelector, msgInvalidConfirmation)
}

func askQuantity(unit string) string {
	return "Ingrese la cantidad en " + unit + ":"
}
