/*
Package observability exposes Prometheus metrics for flowboard.

Metrics are grouped in a Metrics value registered against a caller-supplied
prometheus.Registerer, so tests and embedders can use an isolated registry.
All methods are safe on a nil *Metrics, which disables collection.
*/
package observability
