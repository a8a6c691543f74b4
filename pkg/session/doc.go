/*
Package session keeps one navigation orchestrator per visitor.

Orchestrators are created lazily on first use, serialized per visitor for creation
and teardown, and closed (draining their cleanups) when the visitor leaves or the
process shuts down.
*/
package session
