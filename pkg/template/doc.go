/*
Package template binds free-text placeholders to node structure.

Text-bearing nodes accept content such as "Summarize {{ topic }} for {{audience}}".
Extract returns the distinct placeholder names in first-occurrence order; every name
becomes an input handle on the node, and the node's size grows with its text and with
the number of handles so they never overlap.

Extraction is total and pure: malformed placeholders ("{{}}", "{{1bad}}", "{{a}") simply
do not match and scanning resumes at the next character.
*/
package template
