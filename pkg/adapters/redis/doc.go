// Package redis provides a Redis-backed session store and distributed locker,
// so several replicas can serve the same identities.
package redis
