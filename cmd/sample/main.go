// Command sample demonstrates the github.com/bjaus/autosig library on a
// small in-memory user directory.
//
// Print the documentation of every function:
//
//	go run ./cmd/sample doc
//	go run ./cmd/sample doc list --format json
//
// Call a function with string arguments. Arguments of the form key=value are
// passed by keyword, the rest by position:
//
//	go run ./cmd/sample call list member limit=1
//	go run ./cmd/sample call get 2
//	go run ./cmd/sample call create name=Dave email=dave@example.com
//	go run ./cmd/sample call list limit=0        (rejected: limit below 1)
//
// Add --verbose to log bindings and rejected calls.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bjaus/autosig"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	verbose bool
	funcs   map[string]*autosig.Func
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "sample",
		Short:         "Demonstrate signature enforcement on a user directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log bindings and rejected calls")

	root.AddCommand(a.docCmd(), a.callCmd())
	return root
}

func (a *app) setup(stderr io.Writer) error {
	handler := slog.DiscardHandler
	if a.verbose {
		handler = slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	funcs, err := functions(newUserStore(), slog.New(handler))
	if err != nil {
		return fmt.Errorf("bind demo functions: %w", err)
	}
	a.funcs = funcs
	return nil
}

func (a *app) lookup(name string) (*autosig.Func, error) {
	f, ok := a.funcs[name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q (available: %s)", name, strings.Join(a.names(), ", "))
	}
	return f, nil
}

func (a *app) names() []string {
	return slices.Sorted(maps.Keys(a.funcs))
}

func (a *app) docCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "doc [func...]",
		Short: "Print function documentation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = a.names()
			}
			out := cmd.OutOrStdout()
			for i, name := range args {
				f, err := a.lookup(name)
				if err != nil {
					return err
				}
				if err := writeDoc(out, f.Describe(), format, i); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json, or yaml")
	return cmd
}

func writeDoc(w io.Writer, d autosig.FuncDoc, format string, i int) error {
	switch format {
	case "text":
		if i > 0 {
			fmt.Fprintln(w)
		}
		_, err := io.WriteString(w, d.String())
		return err
	case "json":
		return d.WriteJSON(w)
	case "yaml":
		if i > 0 {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}
		return d.WriteYAML(w)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func (a *app) callCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <func> [arg...] [key=value...]",
		Short: "Call a function with string arguments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.lookup(args[0])
			if err != nil {
				return err
			}

			var positional []any
			var kw map[string]any
			for _, arg := range args[1:] {
				k, v, ok := strings.Cut(arg, "=")
				if !ok {
					positional = append(positional, arg)
					continue
				}
				if kw == nil {
					kw = make(map[string]any)
				}
				kw[k] = v
			}

			results, err := f.CallKW(kw, positional...)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results[0])
		},
	}
}
