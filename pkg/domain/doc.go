/*
Package domain contains the core models of the threshold navigation orchestrator.

It defines the module contract, the navigation payloads and the values handed to
modules on every lifecycle phase. This package is kept pure: it holds no I/O,
no persistence and no scheduling logic, following Hexagonal Architecture principles.

# Key Entities

  - Module: a named record of optional lifecycle hooks, either global or bound to namespaces.
  - NavigationEvent: the inbound payload describing the page being left and the page being entered.
  - NavigationContext: the short-lived value passed to a module hook for one phase of one navigation.
  - Cleanup / Teardown: what a setup hook returns, and the canonical form the orchestrator keeps.
  - CycleReport: the outcome of one navigation cycle, used by journals and observability.
*/
package domain
