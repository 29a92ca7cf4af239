/*
Package runner connects transports to the sales flow.

The Dispatcher owns the per-message pipeline: sanitize the text, take the
identity's lock, consult the authorization gate, load the session, step the
engine, perform the step's effect (commit a sale, register an account, or
discard) and persist or clear the session. Transports only move text in and
out.

# Key Components

  - Dispatcher: the pipeline above, safe for concurrent use across identities.
  - Console: a line-oriented REPL that drives one identity from a terminal.

# Usage

	d := runner.NewDispatcher(engine, sessions, ledger,
		runner.WithRegistry(ledger),
		runner.WithLogger(logger),
	)

	replies, err := d.Handle(ctx, runner.Inbound{Identity: "51999888777", Text: "nueva venta"})
*/
package runner
