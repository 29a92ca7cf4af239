/*
Package session implements per-identity session management.

The Manager wraps a ports.SessionStore with the conversation defaults (an
absent session is a fresh INITIAL one), idle expiry, and a per-identity lock
that can be backed by a ports.DistributedLocker when several replicas share
one store.
*/
package session
