/*
Package session manages named editing sessions.

A Manager keeps live editor sessions in memory, loads them from a ports.GraphStore
on first use and writes snapshots back on Save and Close. Access to one session id
is serialized by a ref-counted local mutex and, when configured, a distributed lock,
so replicas sharing a store do not interleave load and save.
*/
package session
