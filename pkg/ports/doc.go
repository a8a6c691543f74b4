/*
Package ports defines the driven ports (interfaces) of the threshold orchestrator.

These interfaces decouple the navigation cycle from the collaborators that surround it,
so the same orchestrator can drive a real page, a headless simulation or a test double.

# Key Interfaces

  - ModuleRouter: resolves which modules take part in a navigation for a namespace.
  - TransitionEffect: the visual leave/enter effect, treated as an opaque barrier.
  - ScrollSync: the scroll-position synchronization service.
  - Journal: persists cycle reports for inspection.
  - Navigator: the orchestrator surface consumed by driving adapters (HTTP, MCP, CLI).
*/
package ports
