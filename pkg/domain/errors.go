package domain

import "errors"

// ErrDuplicateID is returned when a node is added with an id that already exists in the graph.
var ErrDuplicateID = errors.New("duplicate id")

// ErrNodeNotFound is returned when a mutation references a node that is not in the graph.
// Callers treat it as a no-op: UI events can race with node removal.
var ErrNodeNotFound = errors.New("node not found")

// ErrEdgeNotFound is returned when a mutation references an edge that is not in the graph.
var ErrEdgeNotFound = errors.New("edge not found")

// ErrUnknownNodeType is returned when a node type is not present in the registry.
var ErrUnknownNodeType = errors.New("unknown node type")

// ErrInvalidConnection is returned by strict connection policies for dangling nodes or handles.
var ErrInvalidConnection = errors.New("invalid connection")

// ErrValidatorUnreachable is returned when the validator could not be reached.
var ErrValidatorUnreachable = errors.New("validator unreachable")

// ErrValidatorRejected is returned when the validator answered with a non-success status
// or with a success reply that is not a complete verdict.
var ErrValidatorRejected = errors.New("validator rejected pipeline")

// ErrSubmissionInFlight is returned when a submission is requested while another one is pending.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")
