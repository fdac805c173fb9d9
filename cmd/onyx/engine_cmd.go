package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/services"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

func newDetectCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "detect <message>",
		Short: "Show which triggers a message activates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			detected, err := a.triggers.Detect(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(a.out, detected)
			}
			if len(detected) == 0 {
				fmt.Fprintln(a.out, "No triggers detected")
				return nil
			}
			rows := make([][]string, 0, len(detected))
			for _, d := range detected {
				rows = append(rows, []string{d.Name, "<" + d.CanonicalTag + ">", string(d.Category)})
			}
			printTable(a.out, []string{"Trigger", "Tag", "Category"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newPromptCmd(opts *rootOptions) *cobra.Command {
	var (
		memoryFile string
		basePrompt string
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "prompt <message>",
		Short: "Print the system prompt that would be sent for a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			memory, err := loadMemory(memoryFile)
			if err != nil {
				return err
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			prep, err := a.triggers.Prepare(basePrompt, strings.Join(args, " "), memory)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(a.out, prep)
			}
			if prep.SystemPrompt == "" {
				fmt.Fprintln(a.out, "No triggers detected; no directive would be added")
				return nil
			}
			fmt.Fprintln(a.out, prep.SystemPrompt)
			return nil
		},
	}
	cmd.Flags().StringVarP(&memoryFile, "memory", "m", "", "YAML or JSON file with memory text and items")
	cmd.Flags().StringVar(&basePrompt, "base", "", "Base system prompt the directives are appended to")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON with detected triggers and directives")
	return cmd
}

// displayOptions control how a parsed reply is shown.
type displayOptions struct {
	asJSON   bool
	expand   bool
	explain  bool
	copy     bool
	markdown bool
}

func (d *displayOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&d.asJSON, "json", false, "Output the parse result as JSON")
	cmd.Flags().BoolVarP(&d.expand, "expand", "x", false, "Show working sections in full instead of a preview")
	cmd.Flags().BoolVar(&d.explain, "explain", false, "List what parsing removed from the reply")
	cmd.Flags().BoolVar(&d.copy, "copy", false, "Copy the clean answer to the clipboard")
	cmd.Flags().BoolVar(&d.markdown, "markdown", true, "Render the answer as markdown")
}

// showResult prints a parse result according to the display options.
func showResult(a *app, raw string, result onyxtypes.ParseResult, d displayOptions) error {
	if d.asJSON {
		return printJSON(a.out, result)
	}

	reg, err := a.triggers.Registry()
	if err != nil {
		return err
	}
	if panels := a.renderer.RenderSegments(result.TaggedSegments, reg, d.expand); panels != "" {
		fmt.Fprint(a.out, panels)
	}

	answer := result.CleanContent
	if d.markdown && a.cfg.RenderMarkdown {
		answer = a.markdown.RenderAnswer(answer)
	}
	fmt.Fprintln(a.out, a.renderer.RenderAnswer(answer, result.HasSegments()))

	if d.explain {
		fmt.Fprintln(a.out)
		fmt.Fprint(a.out, services.FormatEdits(services.ExplainParse(raw, result.CleanContent), a.cfg.RenderWidth-12))
	}

	if d.copy {
		copied, err := a.clipboard.Copy(result.CleanContent)
		if err != nil {
			return err
		}
		if copied {
			fmt.Fprintln(a.out, "Answer copied to clipboard")
		} else {
			fmt.Fprintln(a.out, "Clipboard unavailable; answer not copied")
		}
	}
	return nil
}

func newParseCmd(opts *rootOptions) *cobra.Command {
	var d displayOptions
	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Split a tagged reply into the clean answer and working sections",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			data, err := readInput(cmd, path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			raw := string(data)
			result, err := a.triggers.Parse(raw)
			if err != nil {
				return err
			}
			return showResult(a, raw, result, d)
		},
	}
	d.register(cmd)
	return cmd
}
