/*
Package domain contains the core data model of the Flowboard pipeline editor.

It defines the entities that make up an editable pipeline graph and is kept free
of I/O, following the same hexagonal split as the rest of the module: stores,
transports and renderers live in adapters and only exchange these types.

# Key Entities

  - Node: A typed, positioned unit of the pipeline with a free-form data map.
  - Edge: A directed connection from a source handle to a target handle.
  - Handle: A connection point derived from a node's type and data (never stored).
  - Graph: The serializable pair of nodes and edges.
  - NodeChange / EdgeChange: Partial updates produced by interactive gestures.
  - PipelineResult: The validator's verdict for a submitted graph.
*/
package domain
