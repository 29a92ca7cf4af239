// Package sqlite records sales and accounts in an embedded SQLite database.
package sqlite
