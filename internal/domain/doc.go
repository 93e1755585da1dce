// Package domain defines the core business entities of the taskboard
// service: tasks with their embedded comments, categories, and users.
// It also holds the authorization policy for task access, expressed as
// pure functions over a loaded Task and a caller identity.
package domain
