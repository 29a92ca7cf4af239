// Package http exposes the dispatcher as a JSON webhook.
//
// Messaging gateways POST {"identity","text"} to /v1/messages and relay the
// returned replies, in order, to the user. Operators can reset a stuck
// conversation with DELETE /v1/sessions/{identity} and follow one with the
// server-sent events of GET /v1/sessions/{identity}/events.
package http
