// Package http exposes editing sessions over a JSON API with a server-sent event stream
// of graph changes.
//
// All routes live under /api. Every session route opens (or creates) the named session
// through a session.Manager, so a session id is all a client needs.
package http
