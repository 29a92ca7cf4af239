/*
Package domain contains the core models of the sales conversation.

It defines the states of the flow, the per-identity Session, the Draft cart being
assembled, and the records handed to the persistence collaborators. This package
is kept pure and free of I/O, following the Hexagonal Architecture used by the
rest of the module.

# Key Entities

  - StateID: the step the user is at (INITIAL, AWAITING_CLIENT_NAME, ...).
  - Session: current state plus the optional Draft for one identity.
  - Draft: the cart (line items, pending item, payment method, total).
  - StepResult: what the engine returns for one inbound message.
  - Sale / Account: records exchanged with the Ledger and the AccountRegistry.
*/
package domain
