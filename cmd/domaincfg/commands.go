package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bft-labs/domaincfg/pkg/domaincfg"
	"github.com/bft-labs/domaincfg/pkg/log"
)

func newGetCommand(a *app) *cobra.Command {
	var original bool
	cmd := &cobra.Command{
		Use:   "get <key>...",
		Short: "Print the effective configuration objects as YAML",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			op, err := a.begin(ctx)
			if err != nil {
				return err
			}
			return printObjects(ctx, cmd.OutOrStdout(), op, args, original)
		},
	}
	cmd.Flags().BoolVar(&original, "original", false, "print the stored global values without overrides")
	return cmd
}

func printObjects(ctx context.Context, w io.Writer, op *domaincfg.Operation, keys []string, original bool) error {
	objects, err := op.LoadMultiple(ctx, keys, false)
	if err != nil {
		return err
	}

	out := make(map[string]any, len(keys))
	var missing []string
	for _, key := range keys {
		c, ok := objects[key]
		if !ok {
			missing = append(missing, key)
			continue
		}
		if original {
			data, _ := c.GetOriginal("")
			out[key] = data
			continue
		}
		out[key] = c.Data()
	}

	if len(out) > 0 {
		if err := writeYAML(w, out); err != nil {
			return err
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(missing, ", "), errNotFound)
	}
	return nil
}

func newSetCommand(a *app) *cobra.Command {
	var clearPaths []string
	cmd := &cobra.Command{
		Use:   "set <key> [field=value]...",
		Short: "Change fields of a configuration object and save it",
		Long: `Change fields of a configuration object and save it.

Fields are dotted paths. Values are parsed as YAML scalars, so 3 is a
number, true is a boolean and "3" is a string. The object is saved to the
name selected for the active context.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			key := args[0]
			if len(args) == 1 && len(clearPaths) == 0 {
				return errors.New("nothing to set")
			}

			op, err := a.begin(ctx)
			if err != nil {
				return err
			}
			c, err := op.GetEditable(ctx, key)
			if err != nil {
				return err
			}
			for _, assignment := range args[1:] {
				path, value, err := parseAssignment(assignment)
				if err != nil {
					return err
				}
				if err := c.Set(path, value); err != nil {
					return fmt.Errorf("set %s: %w", path, err)
				}
			}
			for _, path := range clearPaths {
				if err := c.Clear(path); err != nil {
					return fmt.Errorf("clear %s: %w", path, err)
				}
			}

			target := op.WriteTarget(ctx, key)
			if _, err := c.Save(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s to %s\n", c.Name(), target)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&clearPaths, "clear", nil, "fields to remove")
	return cmd
}

// parseAssignment splits field=value and decodes value as a YAML scalar.
func parseAssignment(s string) (string, any, error) {
	path, raw, ok := strings.Cut(s, "=")
	if !ok || path == "" {
		return "", nil, fmt.Errorf("invalid assignment %q (want field=value)", s)
	}
	if raw == "" {
		return path, "", nil
	}
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return "", nil, fmt.Errorf("parse value of %s: %w", path, err)
	}
	return path, value, nil
}

func newNamesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "names <key>",
		Short: "Print the storage names read and written for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			op, err := a.begin(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "context: %s\n", op.Context(ctx))
			fmt.Fprintln(w, "read:")
			for _, name := range op.CandidateNames(ctx, args[0]) {
				fmt.Fprintf(w, "  - %s\n", name)
			}
			fmt.Fprintf(w, "write: %s\n", op.WriteTarget(ctx, args[0]))
			return nil
		},
	}
}

func newContextCommand(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Print the active context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			op, err := a.begin(ctx)
			if err != nil {
				return err
			}
			info := a.contextInfo(ctx, op)
			if path != "" {
				info["path"] = path
				info["switcher"] = a.cfg.SwitcherEnabled(path)
			}
			return writeYAML(cmd.OutOrStdout(), info)
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "report whether the context switcher is enabled for this admin path")
	return cmd
}

func (a *app) contextInfo(ctx context.Context, op *domaincfg.Operation) map[string]any {
	c := op.Context(ctx)
	info := map[string]any{
		"context":      c.String(),
		"domain":       c.DomainID,
		"language":     c.LanguageID,
		"cache_suffix": op.CacheSuffix(ctx),
		"remember":     a.cfg.RememberContext,
	}
	if a.cfg.RememberContext {
		info["session"] = a.cfg.Session
	}
	if a.reg != nil {
		info["domains"] = a.reg.Domains()
		info["languages"] = a.reg.Languages()
	}
	return info
}

func newSwitchCommand(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "switch [domain] [language]",
		Short: "Switch the active context; with no arguments switch to global",
		Long: `Switch the active context; with no arguments switch to global.

With --path the switch is refused unless the path is one of the configured
switcher_paths.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if path != "" && !a.cfg.SwitcherEnabled(path) {
				return fmt.Errorf("%s: %w", path, errSwitcherDisabled)
			}
			var domainID, languageID string
			if len(args) > 0 {
				domainID = args[0]
			}
			if len(args) > 1 {
				languageID = args[1]
			}

			op, err := a.begin(ctx)
			if err != nil {
				return err
			}
			c, err := op.SetContext(ctx, domainID, languageID)
			if err != nil {
				return err
			}
			if c.DomainID != domainID || c.LanguageID != languageID {
				a.logger.Warn("unknown ids were cleared")
			}
			if !a.cfg.RememberContext {
				a.logger.Warn("remember_context is disabled; the switch applies to this invocation only")
			}
			return writeYAML(cmd.OutOrStdout(), a.contextInfo(ctx, op))
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "admin path the switch is made from")
	return cmd
}

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [prefix]",
		Short: "List stored names",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.service(); err != nil {
				return err
			}
			var prefix string
			if len(args) == 1 {
				prefix = args[0]
			}
			names, err := a.store.List(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>...",
		Short: "Delete stored names, such as an override that is no longer wanted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.service(); err != nil {
				return err
			}
			for _, name := range args {
				if err := a.store.Delete(cmd.Context(), name); err != nil {
					return fmt.Errorf("delete %s: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", name)
			}
			return nil
		},
	}
}

func newSessionCommand(a *app) *cobra.Command {
	session := &cobra.Command{
		Use:   "session",
		Short: "Manage sessions that remember the context",
	}
	session.AddCommand(&cobra.Command{
		Use:   "new",
		Short: "Print a new session id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := uuid.NewString()
			fmt.Fprintln(cmd.OutOrStdout(), id)
			a.logger.Info("use it with --session or DOMAINCFG_SESSION", log.String("session", id))
			return nil
		},
	})
	return session
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
