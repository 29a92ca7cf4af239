package runtime

import (
	"context"
	"strings"

	"github.com/aretw0/tendero/pkg/domain"
)

const registerCommand = "registrar"

// StepRegistration feeds one message of an identity that is not authorized
// yet. It runs the registration sub-flow: "registrar <business>" then an
// e-mail address, ending with EffectRegister.
func (e *Engine) StepRegistration(ctx context.Context, identity string, current domain.Session, input string) (domain.StepResult, error) {
	base := current.Clone()
	if !base.State.IsRegistration() && base.State != domain.StateInitial {
		// Authorization was revoked mid-sale.
		e.logger.Info("abandoning sale for unauthorized identity", "identity", identity, "state", base.State)
		base = domain.NewSession()
	}
	base.Draft = nil

	var h handler = (*Engine).handleUnregistered
	if base.State == domain.StateAwaitingEmail {
		h = handleEmail(identity)
	}
	return e.apply(ctx, identity, base, base.Clone(), strings.TrimSpace(input), h)
}

func (e *Engine) handleUnregistered(s *domain.Session, input string) (outcome, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 || !strings.EqualFold(fields[0], registerCommand) {
		return outcome{}, reject(domain.ErrUnknownCommand, msgUnregistered)
	}
	if len(fields) < 2 {
		return outcome{}, reject(domain.ErrEmptyInput, msgRegisterNeedsName)
	}

	s.State = domain.StateAwaitingEmail
	s.Registration = &domain.Registration{BusinessName: strings.Join(fields[1:], " ")}
	return reply(msgAskEmail), nil
}

// handleEmail binds the identity so the handler can build the Account.
func handleEmail(identity string) handler {
	return func(e *Engine, s *domain.Session, input string) (outcome, error) {
		if s.Registration == nil {
			return outcome{messages: []string{msgRegistrationLost}, effect: domain.EffectDiscard}, nil
		}
		if !IsEmail(input) {
			return outcome{}, reject(domain.ErrInvalidEmail, msgInvalidEmail)
		}
		return outcome{
			effect: domain.EffectRegister,
			account: &domain.Account{
				Identity:     identity,
				BusinessName: s.Registration.BusinessName,
				Email:        input,
				RegisteredAt: e.now(),
			},
		}, nil
	}
}
