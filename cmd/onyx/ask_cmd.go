package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/abiosoft/ishell/v2"
	"github.com/abiosoft/readline"
	"github.com/spf13/cobra"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/logger"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/services"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/version"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

// askFlags select the provider and memory for ask and chat.
type askFlags struct {
	provider   string
	model      string
	memoryFile string
	basePrompt string
	showRaw    bool
}

func (f *askFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.provider, "provider", "p", "", "AI provider (openai|anthropic|gemini)")
	cmd.Flags().StringVar(&f.model, "model", "", "Model name (default depends on provider)")
	cmd.Flags().StringVarP(&f.memoryFile, "memory", "m", "", "YAML or JSON file with memory text and items")
	cmd.Flags().StringVar(&f.basePrompt, "base", "", "Base system prompt")
	cmd.Flags().BoolVar(&f.showRaw, "raw", false, "Also print the unparsed reply")
}

func (f *askFlags) request(message string, memory onyxtypes.MemoryContext) services.AskRequest {
	return services.AskRequest{
		Message:    message,
		Provider:   f.provider,
		Model:      f.model,
		BasePrompt: f.basePrompt,
		Memory:     memory,
	}
}

// runTurn sends one message and prints the parsed reply.
func runTurn(ctx context.Context, a *app, f *askFlags, d displayOptions, message string, memory onyxtypes.MemoryContext) error {
	result, err := a.ask.Ask(ctx, f.request(message, memory))
	if err != nil {
		return err
	}

	if len(result.Preparation.Detected) > 0 && !d.asJSON {
		names := make([]string, len(result.Preparation.Detected))
		for i, t := range result.Preparation.Detected {
			names[i] = t.Name
		}
		logger.Info("Triggers active", "turn", result.TurnID, "triggers", strings.Join(names, ", "))
	}
	if f.showRaw && !d.asJSON {
		fmt.Fprintln(a.out, result.Raw)
		fmt.Fprintln(a.out)
	}
	if d.asJSON {
		return printJSON(a.out, result)
	}
	return showResult(a, result.Raw, result.Result, d)
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	var (
		f askFlags
		d displayOptions
	)
	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Send one message to the AI provider and show the parsed reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			memory, err := loadMemory(f.memoryFile)
			if err != nil {
				return err
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			return runTurn(cmd.Context(), a, &f, d, strings.Join(args, " "), memory)
		},
	}
	f.register(cmd)
	d.register(cmd)
	return cmd
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	var (
		f askFlags
		d displayOptions
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive session; each line is sent as one message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			memory, err := loadMemory(f.memoryFile)
			if err != nil {
				return err
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			_, storePath := a.storage.Backend()
			sh := ishell.NewWithConfig(chatShellConfig(storePath))
			sh.SetOut(a.out)

			sh.AddCmd(&ishell.Cmd{
				Name: "/detect",
				Help: "show the triggers a message would activate",
				Func: func(c *ishell.Context) {
					detected, err := a.triggers.Detect(strings.Join(c.Args, " "))
					if err != nil {
						c.Err(err)
						return
					}
					if len(detected) == 0 {
						c.Println("No triggers detected")
						return
					}
					for _, t := range detected {
						c.Printf("%s  <%s>  %s\n", t.Name, t.CanonicalTag, t.Category)
					}
				},
			})
			sh.AddCmd(&ishell.Cmd{
				Name: "/expand",
				Help: "toggle full working sections",
				Func: func(c *ishell.Context) {
					d.expand = !d.expand
					c.Printf("Expanded sections: %s\n", yesNo(d.expand))
				},
			})
			sh.NotFound(func(c *ishell.Context) {
				message := strings.TrimSpace(strings.Join(c.RawArgs, " "))
				if message == "" {
					return
				}
				if err := runTurn(cmd.Context(), a, &f, d, message, memory); err != nil {
					c.Err(err)
				}
			})

			sh.Println(version.GetFormattedVersion() + " - type a message, 'help' for commands, 'exit' to quit.")
			sh.Run()
			sh.Close()
			return nil
		},
	}
	f.register(cmd)
	d.register(cmd)
	return cmd
}

// chatShellConfig is the line editor setup for the chat REPL.
func chatShellConfig(storePath string) *readline.Config {
	return &readline.Config{
		Prompt:          "onyx> ",
		HistoryFile:     chatHistoryFile(storePath),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	}
}

// chatHistoryFile keeps readline history next to the store, when the store is on disk.
func chatHistoryFile(storePath string) string {
	if storePath == "" {
		return ""
	}
	dir := storePath
	if filepath.Ext(storePath) != "" {
		dir = filepath.Dir(storePath)
	}
	return filepath.Join(dir, "chat_history")
}
