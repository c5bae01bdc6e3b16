// Command queryfmt is a thin wrapper around the search package: it parses a
// query string from the command line and prints it back out, optionally
// translated to a different dialect.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	search "github.com/rburchell/search"
)

var (
	dialectFlag string
	fieldsFlag  []string
	sloppyFlag  bool
	serverFlag  bool
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the queryfmt command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "queryfmt",
		Short:         "Parse and reformat search queries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newParseCmd())
	root.AddCommand(newTranslateCmd())
	return root
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [query]",
		Short: "Parse a query and print its normalized (Native) form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, DialectChoice())
		},
	}
	cmd.Flags().StringSliceVar(&fieldsFlag, "field", nil, "known field name (repeatable)")
	cmd.Flags().BoolVar(&sloppyFlag, "sloppy", false, "enable lenient recovery parsing")
	cmd.Flags().BoolVar(&serverFlag, "server", false, "read one query per line from stdin, tagging each with a request id")
	return cmd
}

func newTranslateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate [query]",
		Short: "Parse a query and print it in another dialect",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, dialectFlag)
		},
	}
	cmd.Flags().StringVar(&dialectFlag, "dialect", "native", "target dialect: native|sql|swish")
	cmd.Flags().StringSliceVar(&fieldsFlag, "field", nil, "known field name (repeatable)")
	cmd.Flags().BoolVar(&sloppyFlag, "sloppy", false, "enable lenient recovery parsing")
	cmd.Flags().BoolVar(&serverFlag, "server", false, "read one query per line from stdin, tagging each with a request id")
	return cmd
}

// DialectChoice is parse's fixed target: Native, the canonical debug form.
func DialectChoice() string { return "native" }

func run(cmd *cobra.Command, args []string, dialectName string) error {
	dialect, err := search.ParseDialect(dialectName)
	if err != nil {
		return err
	}

	var fields []*search.FieldDescriptor
	for _, name := range fieldsFlag {
		fields = append(fields, search.NewFieldDescriptor(name, search.FieldChar))
	}

	p, err := search.NewParser(search.Config{
		Fields:  fields,
		Dialect: dialect,
		Sloppy:  sloppyFlag,
	})
	if err != nil {
		return err
	}

	if serverFlag {
		return runServer(cmd, p)
	}

	if len(args) == 0 {
		return fmt.Errorf("a query is required unless --server is given")
	}
	return formatOne(cmd, p, args[0])
}

// runServer implements the "--server" batch mode: each stdin line is parsed
// independently and tagged with a fresh request id, so a caller piping many
// queries through one long-lived process can correlate output lines back to
// input lines.
func runServer(cmd *cobra.Command, p *search.Parser) error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		reqID := uuid.New().String()
		tree, err := p.Parse(line)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tERROR\t%s\n", reqID, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", reqID, tree.String())
	}
	return scanner.Err()
}

func formatOne(cmd *cobra.Command, p *search.Parser, query string) error {
	tree, err := p.Parse(query)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tree.String())
	return nil
}
