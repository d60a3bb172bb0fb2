// Package schema describes the configurable values of a pipeline node.
//
// A node type declares an ordered list of Fields. Each Field carries a kind
// (text, textarea, number, select, checkbox), a label, optional options and
// numeric constraints, and a default that is either a literal or a function
// of the node id and its current data:
//
//	fields := []schema.Field{
//	    {Key: "inputName", Label: "Name", Kind: schema.KindText,
//	        DefaultFunc: func(id string, _ map[string]any) any {
//	            return strings.Replace(id, "customInput-", "input_", 1)
//	        }},
//	    {Key: "inputType", Label: "Type", Kind: schema.KindSelect,
//	        Options: []any{"Text", "File"}, Default: "Text"},
//	}
//
// Defaults are lazy. Defaults returns only the values for keys that are not yet
// defined in the node data, so committing its result is idempotent and never
// overwrites a user edit:
//
//	for key, value := range schema.Defaults(fields, node.ID, node.Data) {
//	    store.UpdateNodeField(node.ID, key, value)
//	}
//
// Values can be checked against their declared kind and constraints with
// ValidateValue or, for a whole data map, Validate, which aggregates every
// failure into an *AggregateError.
//
// This package has no dependencies beyond the Go standard library.
package schema
