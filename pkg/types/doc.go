// Package types defines the Store interface, the Row and Document data model,
// configuration, and the standard errors for the shelf document store.
package types
