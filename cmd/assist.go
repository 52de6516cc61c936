package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/MJCFL/personal-finance-tracker/advisor"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct{}

func (*assistCmd) Name() string { return "assist" }

func (*assistCmd) Synopsis() string { return "Start an interactive session with the AI assistant." }

func (*assistCmd) Usage() string {
	return `assist:
  Start an interactive session with the AI assistant. The assistant is
  given the current net-worth report and answers questions about it.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
	}

	snapshot, status := summaryMarkdown(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	a := advisor.New(os.Stdout, os.Stdin)
	if err := a.Start(ctx, client, snapshot); err != nil {
		fmt.Fprintln(os.Stderr, "Error starting advisor:", err)
		return subcommands.ExitFailure
	}

	if initialPrompt != "" {
		err = a.Run(ctx, initialPrompt)
	} else {
		err = a.Run(ctx)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Advisor failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
