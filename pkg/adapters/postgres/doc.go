// Package postgres records sales and accounts in PostgreSQL through pgx.
package postgres
