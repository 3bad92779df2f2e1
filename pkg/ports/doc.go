/*
Package ports defines the driven ports (interfaces) of the Aura agent.

These interfaces decouple the core logic from external implementations, allowing
the agent to read prompt templates from various backends and letting transports drive
a run without knowing how the engine is built.

# Key Interfaces

  - TemplateSource: Resolves prompt template text by id (e.g., from Loam, Redis or Memory).
  - Runner: Produces the incremental snapshots of one run.
*/
package ports
