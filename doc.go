/*
Package tendero is a guided sales assistant for merchants who record sales by chat.

A merchant writes "nueva venta" and is walked through a fixed state machine: the client
name, one or more products (description, unit type, quantity, price), an optional edit of
the cart, the payment method and a final confirmation. On confirmation the sale is
committed to a Ledger exactly once and the conversation starts over.

# Concept

The flow itself is a pure function of the current session and one input. Hosts feed
messages through a Dispatcher, which serializes each identity, loads its session from a
SessionStore, steps the flow, performs the resulting effect (commit a sale, register an
account, discard) and stores or clears the session. Invalid input never advances the flow:
the same question is asked again with a corrective hint and the cart is left untouched.

# Key Features

  - Deterministic Flow: Given the same session and input, the step is always reproducible.
  - Pluggable Storage: Sessions live in memory, Redis or files; sales in memory, SQLite or PostgreSQL.
  - Idempotent Commits: The draft ID is the idempotency key of every sale.
  - Registration Gate: Identities can be required to register a business before selling.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/tendero"
	)

	func main() {
		eng := tendero.New()
		ctx := context.Background()

		for _, in := range []string{"nueva venta", "Acme", "Widget", "1", "3", "10"} {
			replies, err := eng.Handle(ctx, "51999", in)
			if err != nil {
				log.Fatal(err)
			}
			for _, r := range replies {
				fmt.Println(r)
			}
		}
	}
*/
package tendero
