/*
Package editor ties the graph store, the node registry and the submitter into one editing session.

A Session is what a presentation adapter drives: it turns gestures (drop a palette
item, type into a field, drag a connection, press submit) into store mutations and
renders nodes back as field lists, handles and sizes.

Defaults are materialized on the first render of a node: every declared field key
without a value gets its default written through the store exactly once, so later
renders never overwrite user edits.
*/
package editor
