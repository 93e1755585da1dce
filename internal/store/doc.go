// Package store provides abstractions for data persistence: entity
// store interfaces, the filter and pagination types they consume, and
// the sentinel errors implementations return. Concrete implementations
// live in internal/platform/postgres.
package store
