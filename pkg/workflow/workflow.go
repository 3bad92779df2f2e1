// Package workflow wires the Aura pipeline: an optional greeting turn followed by the agent turn.
//
// Both nodes call the completion service once. The agent prompt is built from the user query
// alone; it does not read the greeting reply.
package workflow

import (
	"context"

	"github.com/aretw0/aura/pkg/completion"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/graph"
	"github.com/aretw0/aura/pkg/prompt"
)

const (
	NodeGreeting = "greeting"
	NodeAgent    = "agent"
)

// GreetingNode acknowledges the query using only its first words.
func GreetingNode(asm *prompt.Assembler, c completion.Completer) graph.Node {
	return graph.Node{
		Name: NodeGreeting,
		Next: NodeAgent,
		Run: func(ctx context.Context, state *domain.WorkflowState) (graph.Result, error) {
			return complete(ctx, NodeGreeting, c, asm.Greeting(state.UserQuery))
		},
	}
}

// AgentNode answers the full query.
func AgentNode(asm *prompt.Assembler, c completion.Completer) graph.Node {
	return graph.Node{
		Name: NodeAgent,
		Next: graph.Terminal,
		Run: func(ctx context.Context, state *domain.WorkflowState) (graph.Result, error) {
			return complete(ctx, NodeAgent, c, asm.UserQuery(state.UserQuery))
		},
	}
}

// New builds greeting -> agent -> END when asm has a greeting template, else agent -> END.
func New(asm *prompt.Assembler, c completion.Completer) (*graph.Graph, error) {
	if asm.HasGreeting() {
		return graph.New(NodeGreeting, GreetingNode(asm, c), AgentNode(asm, c))
	}
	return graph.New(NodeAgent, AgentNode(asm, c))
}

func complete(ctx context.Context, node string, c completion.Completer, msgs []domain.Message) (graph.Result, error) {
	reply, err := c.Complete(ctx, msgs)
	if err != nil {
		return graph.Result{}, &domain.NodeError{Node: node, Err: err}
	}
	if reply.Role != domain.RoleAssistant {
		reply = domain.AssistantMessage(reply.Content)
	}
	return graph.Result{Messages: []domain.Message{reply}}, nil
}
