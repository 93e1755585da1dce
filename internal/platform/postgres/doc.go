// Package postgres contains the PostgreSQL implementations of the
// store interfaces. Every store accepts a store.DBTX so it works with
// either a plain connection or a transaction.
package postgres
