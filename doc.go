/*
Package aura is a small workflow agent that answers natural-language requests by running them
through an ordered graph of completion-backed nodes.

The default pipeline has two nodes: an optional greeting turn, which only sees the first words
of the request, followed by the agent turn, which answers the full request. The result is
exposed either as one final answer (Ask) or as an incremental sequence of frames (Stream)
suitable for Server-Sent Events.

# Usage

Build the Agent once at startup and share it between requests:

	src := memory.NewSource(map[string]string{
		"system":   "You are a helpful assistant.",
		"greeting": "Greet the user briefly.",
	})

	asm, err := prompt.Load(ctx, src, prompt.Templates{System: "system", Greeting: "greeting"})
	if err != nil {
		log.Fatal(err)
	}

	agent, err := aura.New(asm, openai.New(openai.Config{APIKey: key}))
	if err != nil {
		log.Fatal(err)
	}

	frames, err := agent.Stream(ctx, domain.AgentRequest{Request: "What is a goroutine?"})
	if err != nil {
		log.Fatal(err) // validation error, e.g. domain.ErrEmptyRequest
	}
	for frame := range frames {
		fmt.Println(frame.Detail.Message)
	}

Streaming is pull-based: the completion call of a node is not made until the previous frame
has been consumed, so a slow client slows the run down instead of filling a buffer.
*/
package aura
