// Package store holds the authoritative node and edge collections of one editing session.
//
// The Store is a structural store, not a validator: it keeps ids unique and edges
// attached to their changes, but it never rejects cycles or dangling handles.
// Every mutation is atomic with respect to the others and subscribers observe
// events in mutation order.
package store
