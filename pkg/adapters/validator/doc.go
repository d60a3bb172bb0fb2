// Package validator is the reference pipeline validator service.
//
// It answers POST /pipelines/parse with the node count, the edge count and whether the
// submitted graph is acyclic. Request bodies are checked against an embedded JSON Schema
// before analysis; edges whose endpoints are not submitted nodes are ignored.
package validator
