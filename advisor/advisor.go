// Package advisor provides an interactive AI assistant that answers
// questions about a user's finances.
package advisor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

const instruction = `You are a personal finance assistant. You are given the
user's current financial snapshot as a markdown report. Answer questions about
their accounts, holdings, budgets and net worth based on that snapshot. Be
concise, and never invent numbers that are not in the snapshot.`

// Advisor holds an interactive chat session with the finance assistant.
type Advisor struct {
	w    io.Writer
	r    *bufio.Reader
	chat *genai.Chat
}

// New creates an Advisor reading user input from r and writing replies to w.
func New(w io.Writer, r io.Reader) *Advisor {
	return &Advisor{w: w, r: bufio.NewReader(r)}
}

// Start opens the chat session, seeding it with the snapshot report.
func (a *Advisor) Start(ctx context.Context, client *genai.Client, snapshot string) error {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
	}
	history := []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{
			{Text: "Here is my current financial snapshot:\n\n" + snapshot},
		}},
	}
	chat, err := client.Chats.Create(ctx, model, config, history)
	if err != nil {
		return err
	}
	a.chat = chat
	return nil
}

// Ask sends one question and returns the assistant's reply.
func (a *Advisor) Ask(ctx context.Context, question string) (string, error) {
	resp, err := a.chat.Send(ctx, &genai.Part{Text: question})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from advisor")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

const prompt = "advisor> "

// Run starts the interactive REPL session. Optional prompts are consumed
// before reading from the input stream.
func (a *Advisor) Run(ctx context.Context, prompts ...string) error {
	fmt.Fprintln(a.w, "Welcome to the finance advisor. Type 'bye' to exit.")

	for {
		fmt.Fprint(a.w, prompt)
		var input string

		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil // Clean exit on Ctrl+D
				}
				return err
			}
		}

		if strings.TrimSpace(input) == "bye" {
			return nil
		}

		answer, err := a.Ask(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, answer)
	}
}
