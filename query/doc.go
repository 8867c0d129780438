// Package query holds the user's current search intent and notifies
// observers when it changes.
package query
