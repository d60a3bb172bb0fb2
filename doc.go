/*
Package flowboard is a headless editor for pipeline graphs: typed nodes joined by
edges between named handles.

It keeps the editing model of a visual pipeline builder on the server side. Nodes are
dropped from a registry of types, their fields are materialized from declared
defaults, and text nodes grow one input handle per {{ variable }} in their template.
A finished pipeline is submitted to an external validator which reports node and edge
counts and whether the graph is a DAG.

# Usage

The Editor type bundles a session with the built-in node registry:

	ed := flowboard.New(flowboard.WithValidator("http://localhost:8000"))

	in, _ := ed.Drop(domain.DropPayload{NodeType: domain.NodeTypeInput}, domain.Position{})
	llm, _ := ed.Drop(domain.DropPayload{NodeType: domain.NodeTypeLLM}, domain.Position{X: 300})
	_, _ = ed.Connect(domain.Connection{
		Source: in.Node.ID, SourceHandle: domain.HandleID(in.Node.ID, "value"),
		Target: llm.Node.ID, TargetHandle: domain.HandleID(llm.Node.ID, "prompt"),
	})

	res, err := ed.Submit(ctx)

The flowboard command exposes the same model over HTTP, MCP and a CLI.
*/
package flowboard
