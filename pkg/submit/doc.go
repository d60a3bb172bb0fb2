/*
Package submit sends a graph snapshot to the external pipeline validator.

Client speaks the validator's HTTP protocol:

	POST {baseURL}/pipelines/parse   {"nodes": [...], "edges": [...]}
	200                              {"num_nodes": N, "num_edges": M, "is_dag": bool}

Submitter adds the editing-session policy on top: at most one submission in
flight, a snapshot taken before the network call, and a notification for every
outcome. The result is informational; nothing here mutates the graph.
*/
package submit
