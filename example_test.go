package aura_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/aura"
	"github.com/aretw0/aura/pkg/adapters/memory"
	"github.com/aretw0/aura/pkg/completion/mock"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/prompt"
)

// ExampleAgent_Stream demonstrates an incremental run with an offline completer.
func ExampleAgent_Stream() {
	ctx := context.Background()

	src := memory.NewSource(map[string]string{
		"system":   "You are a helpful assistant.",
		"greeting": "Greet the user.",
	})
	asm, err := prompt.Load(ctx, src, prompt.Templates{System: "system", Greeting: "greeting"})
	if err != nil {
		log.Fatal(err)
	}

	agent, err := aura.New(asm, mock.New())
	if err != nil {
		log.Fatal(err)
	}

	frames, err := agent.Stream(ctx, domain.AgentRequest{Request: "Tell me about Go"})
	if err != nil {
		log.Fatal(err)
	}
	for frame := range frames {
		fmt.Printf("%s/%s: %s\n", frame.Type, frame.Detail.Entity, frame.Detail.Message)
	}

	// Output:
	// message/assistant: [MOCK] Received your message: "The first 10 words of the user's query are: Tell me about Go"
	// message/assistant: [MOCK] Received your message: "Tell me about Go"
}

// ExampleAgent_Ask demonstrates a blocking run without a greeting template.
func ExampleAgent_Ask() {
	agent, err := aura.New(prompt.New("You are terse."), mock.New())
	if err != nil {
		log.Fatal(err)
	}

	resp, err := agent.Ask(context.Background(), domain.AgentRequest{Request: "  ping  "})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(resp.Detail.Message)

	// Output:
	// [MOCK] Received your message: "ping"
}
