package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tourli-ai/internal/rag"
)

type answerer interface {
	Answer(ctx context.Context, text string) rag.QueryResult
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive question/answer session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()
			return runChat(ctx, a.Engine, a.Config.RegionName, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func newAskCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()
			return runAsk(ctx, a.Engine, strings.Join(args, " "), asJSON, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func runAsk(ctx context.Context, engine answerer, question string, asJSON bool, out io.Writer) error {
	res := engine.Answer(ctx, question)
	if !asJSON {
		_, err := fmt.Fprintln(out, res.Answer)
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// isQuit reports whether line ends the session. Farewells such as "bye" are
// still answered by the engine.
func isQuit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "quit", "exit":
		return true
	}
	return false
}

// runChat reads one question per line until EOF or a quit word.
func runChat(ctx context.Context, engine answerer, region string, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	_, _ = fmt.Fprintf(out, "Ask me anything about travel in %s. Type 'quit' to leave.\n", region)
	for {
		_, _ = fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(out)
			return scanner.Err()
		}
		line := scanner.Text()
		if isQuit(line) {
			_, _ = fmt.Fprintf(out, "Goodbye! Enjoy your trip to %s!\n", region)
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		res := engine.Answer(ctx, line)
		_, _ = fmt.Fprintf(out, "%s\n\n", res.Answer)
	}
}
