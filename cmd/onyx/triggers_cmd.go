package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/storage"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/triggers"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

func newTriggersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "triggers",
		Aliases: []string{"trigger", "t"},
		Short:   "Manage built-in and custom triggers",
	}
	cmd.AddCommand(
		newTriggersListCmd(opts),
		newTriggersShowCmd(opts),
		newTriggersAddCmd(opts),
		newTriggersUpdateCmd(opts),
		newTriggersDeleteCmd(opts),
		newTriggersToggleCmd(opts, "enable", true),
		newTriggersToggleCmd(opts, "disable", false),
		newTriggersResetCmd(opts),
		newTriggersImportCmd(opts),
		newTriggersExportCmd(opts),
		newTriggersWatchCmd(opts),
	)
	return cmd
}

// withRegistry opens the services and hands the trigger registry to fn.
func withRegistry(cmd *cobra.Command, opts *rootOptions, fn func(a *app, reg *triggers.Registry) error) error {
	a, err := openApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	reg, err := a.triggers.Registry()
	if err != nil {
		return err
	}
	return fn(a, reg)
}

func newTriggersListCmd(opts *rootOptions) *cobra.Command {
	var (
		category   string
		customOnly bool
		enabled    bool
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List triggers in detection order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var want onyxtypes.Category
			if category != "" {
				c, ok := onyxtypes.ParseCategory(category)
				if !ok {
					return fmt.Errorf("unknown category %q", category)
				}
				want = c
			}

			return withRegistry(cmd, opts, func(a *app, reg *triggers.Registry) error {
				var defs []onyxtypes.TriggerDefinition
				for _, def := range reg.ListAll() {
					if want != "" && def.Category != want {
						continue
					}
					if customOnly && !def.IsCustom {
						continue
					}
					if enabled && !def.Enabled {
						continue
					}
					defs = append(defs, def)
				}

				if asJSON {
					if defs == nil {
						defs = []onyxtypes.TriggerDefinition{}
					}
					return printJSON(a.out, defs)
				}

				rows := make([][]string, 0, len(defs))
				for _, def := range defs {
					rows = append(rows, []string{def.Name, "<" + triggers.Normalize(def.Name) + ">", string(def.Category), yesNo(def.Enabled), yesNo(def.IsCustom)})
				}
				printTable(a.out, []string{"Name", "Tag", "Category", "Enabled", "Custom"}, rows)
				fmt.Fprintf(a.out, "%d triggers\n", len(defs))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only list this category")
	cmd.Flags().BoolVar(&customOnly, "custom", false, "Only list custom triggers")
	cmd.Flags().BoolVar(&enabled, "enabled", false, "Only list enabled triggers")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newTriggersShowCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one trigger",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return withRegistry(cmd, opts, func(a *app, reg *triggers.Registry) error {
				def, ok := reg.Lookup(name)
				if !ok {
					return fmt.Errorf("trigger %q not found", name)
				}
				if asJSON {
					return printJSON(a.out, def)
				}
				fmt.Fprintf(a.out, "Name:        %s\n", def.Name)
				fmt.Fprintf(a.out, "Tag:         <%s>\n", triggers.Normalize(def.Name))
				fmt.Fprintf(a.out, "Category:    %s\n", def.Category)
				fmt.Fprintf(a.out, "Enabled:     %s\n", yesNo(def.Enabled))
				fmt.Fprintf(a.out, "Custom:      %s\n", yesNo(def.IsCustom))
				fmt.Fprintf(a.out, "Built-in:    %s\n", yesNo(reg.IsBuiltin(def.Name)))
				fmt.Fprintf(a.out, "Instruction: %s\n", def.Instruction)
				if def.Example != "" {
					fmt.Fprintf(a.out, "Example:     %s\n", def.Example)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

// definitionFlags are the editable fields shared by add and update.
type definitionFlags struct {
	name        string
	category    string
	instruction string
	example     string
	disabled    bool
}

func (f *definitionFlags) register(cmd *cobra.Command, withRename bool) {
	if withRename {
		cmd.Flags().StringVar(&f.name, "name", "", "New name")
	}
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Category display name, e.g. \"Reasoning and Analysis\"")
	cmd.Flags().StringVarP(&f.instruction, "instruction", "i", "", "Instruction injected into the prompt")
	cmd.Flags().StringVarP(&f.example, "example", "e", "", "Example message")
}

func (f *definitionFlags) apply(cmd *cobra.Command, def *onyxtypes.TriggerDefinition) error {
	if cmd.Flags().Changed("name") {
		def.Name = f.name
	}
	if cmd.Flags().Changed("category") {
		c, ok := onyxtypes.ParseCategory(f.category)
		if !ok {
			return fmt.Errorf("unknown category %q", f.category)
		}
		def.Category = c
	}
	if cmd.Flags().Changed("instruction") {
		def.Instruction = f.instruction
	}
	if cmd.Flags().Changed("example") {
		def.Example = f.example
	}
	return nil
}

func newTriggersAddCmd(opts *rootOptions) *cobra.Command {
	var f definitionFlags
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom trigger",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def := onyxtypes.TriggerDefinition{
				Name:     strings.Join(args, " "),
				Category: onyxtypes.CategoryReasoning,
				Enabled:  !f.disabled,
			}
			if err := f.apply(cmd, &def); err != nil {
				return err
			}
			if strings.TrimSpace(def.Instruction) == "" {
				return fmt.Errorf("--instruction is required")
			}

			return withRegistry(cmd, opts, func(a *app, reg *triggers.Registry) error {
				if err := reg.Add(def); err != nil {
					var dup *onyxtypes.DuplicateTriggerError
					if errors.As(err, &dup) {
						return fmt.Errorf("a trigger named %q already exists", dup.Existing)
					}
					return err
				}
				fmt.Fprintf(a.out, "Added trigger %q (tag <%s>)\n", def.Name, triggers.Normalize(def.Name))
				return nil
			})
		},
	}
	f.register(cmd, false)
	cmd.Flags().BoolVar(&f.disabled, "disabled", false, "Add the trigger switched off")
	return cmd
}

func newTriggersUpdateCmd(opts *rootOptions) *cobra.Command {
	var f definitionFlags
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Update a trigger; built-ins get a custom override",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return withRegistry(cmd, opts, func(a *app, reg *triggers.Registry) error {
				def, ok := reg.Lookup(name)
				if !ok {
					return fmt.Errorf("trigger %q not found", name)
				}
				if err := f.apply(cmd, &def); err != nil {
					return err
				}
				if err := reg.Update(name, def); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Updated trigger %q\n", name)
				return nil
			})
		},
	}
	f.register(cmd, true)
	return cmd
}

func newTriggersDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a custom trigger or override",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return withRegistry(cmd, opts, func(a *app, reg *triggers.Registry) error {
				def, ok := reg.Lookup(name)
				if !ok {
					return fmt.Errorf("trigger %q not found", name)
				}
				if !def.IsCustom {
					fmt.Fprintf(a.out, "%q is a built-in trigger and cannot be deleted; use 'triggers disable' instead\n", def.Name)
					return nil
				}
				if err := reg.Delete(name); err != nil {
					return err
				}
				if reg.IsBuiltin(name) {
					fmt.Fprintf(a.out, "Removed override; built-in %q restored\n", def.Name)
					return nil
				}
				fmt.Fprintf(a.out, "Deleted trigger %q\n", def.Name)
				return nil
			})
		},
	}
}

func newTriggersToggleCmd(opts *rootOptions, verb string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <name>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " detection of a trigger",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return withRegistry(cmd, opts, func(a *app, reg *triggers.Registry) error {
				if _, ok := reg.Lookup(name); !ok {
					return fmt.Errorf("trigger %q not found", name)
				}
				if err := reg.SetEnabled(name, enabled); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Trigger %q %sd\n", name, verb)
				return nil
			})
		},
	}
}

func newTriggersResetCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard all custom triggers and overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("reset discards every custom trigger; re-run with --yes to confirm")
			}
			return withRegistry(cmd, opts, func(a *app, reg *triggers.Registry) error {
				if err := reg.Reset(); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Custom triggers cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset")
	return cmd
}

func newTriggersImportCmd(opts *rootOptions) *cobra.Command {
	var (
		merge  bool
		format string
	)
	cmd := &cobra.Command{
		Use:   "import [file|-]",
		Short: "Import custom triggers from a JSON (or YAML) array",
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
			if format == "yaml" {
				if data, err = yamlToJSON(data); err != nil {
					return err
				}
			}

			return withRegistry(cmd, opts, func(a *app, reg *triggers.Registry) error {
				if err := reg.Import(data, merge); err != nil {
					var parseErr *onyxtypes.ImportParseError
					if errors.As(err, &parseErr) {
						return fmt.Errorf("invalid trigger file: %w", parseErr)
					}
					return err
				}
				custom, err := reg.ListCustom()
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Imported; %d custom triggers now stored\n", len(custom))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&merge, "merge", false, "Merge with existing custom triggers instead of replacing them")
	cmd.Flags().StringVar(&format, "format", "json", "Input format (json|yaml)")
	return cmd
}

func newTriggersExportCmd(opts *rootOptions) *cobra.Command {
	var (
		all    bool
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export custom triggers as a JSON array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRegistry(cmd, opts, func(a *app, reg *triggers.Registry) error {
				var (
					data []byte
					err  error
				)
				if all {
					data, err = reg.ExportAll()
				} else {
					data, err = reg.Export()
				}
				if err != nil {
					return err
				}
				if format == "yaml" {
					if data, err = jsonToYAML(data); err != nil {
						return err
					}
				}
				if output != "" {
					return os.WriteFile(output, data, 0o644)
				}
				_, err = a.out.Write(data)
				if err == nil && len(data) > 0 && data[len(data)-1] != '\n' {
					_, err = fmt.Fprintln(a.out)
				}
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Export the merged built-in and custom list")
	cmd.Flags().StringVar(&format, "format", "json", "Output format (json|yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func newTriggersWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reload custom triggers whenever the file store changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRegistry(cmd, opts, func(a *app, reg *triggers.Registry) error {
				backend, path := a.storage.Backend()
				if backend != storage.BackendFile {
					return fmt.Errorf("watch needs the file store (current backend: %s)", backend)
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				if err := a.triggers.WatchStore(ctx, storage.DefaultWatchDebounce); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Watching %s (%d triggers); Ctrl+C to stop\n", path, len(reg.ListAll()))
				<-ctx.Done()
				return nil
			})
		},
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var defs []onyxtypes.TriggerDefinition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, &onyxtypes.ImportParseError{Err: err}
	}
	return json.Marshal(defs)
}

func jsonToYAML(data []byte) ([]byte, error) {
	var defs []onyxtypes.TriggerDefinition
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, err
	}
	return yaml.Marshal(defs)
}
