// Package service contains the application's use-case layer. It
// composes domain entities and store interfaces into the operations
// the API exposes: task CRUD under the access policy, comment
// appends, listing with pagination, and per-user aggregation.
//
// Services own authorization decisions. Stores never check who is
// asking; handlers never look at task ownership. Everything between
// "who is the caller" and "what rows change" happens here.
package service
