// Package memory provides in-process implementations of the session store,
// the ledger and the account registry.
package memory
