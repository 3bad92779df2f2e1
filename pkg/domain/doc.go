/*
Package domain contains the core domain models of the Aura workflow agent.

It defines the entities exchanged between the prompt assembler, the workflow graph,
the execution engine and the transports. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Message: One immutable chat message (system, human or assistant).
  - WorkflowState: The state owned by a single run (user query + appended messages).
  - Snapshot: The view of a run emitted after each node transition.
  - AgentRequest / AgentResponse: The external request and the frame shape returned to callers.
*/
package domain
