/*
Package dsl provides a fluent builder for pipeline graphs.

It is the programmatic counterpart of a JSON or YAML pipeline file, handy for tests,
fixtures and generated pipelines:

	g, err := dsl.New().
		Add("question", domain.NodeTypeInput).Set("inputName", "question").
		Add("answer", domain.NodeTypeLLM).At(300, 0).
		Add("reply", domain.NodeTypeOutput).At(600, 0).
		Connect("question", "value", "answer", "prompt").
		Connect("answer", "response", "reply", "value").
		Build()

Handle names are local; the builder expands them to "<nodeId>-<name>".
*/
package dsl
