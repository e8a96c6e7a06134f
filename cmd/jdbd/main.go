package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	jdbd "github.com/yggai/ygggo_jdbd"
)

type options struct {
	configPath string
	kind       string
	dsn        string
	path       string
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "jdbd",
		Short:         "Run prepared SQL statements against MySQL, PostgreSQL or SQLite",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&opts.kind, "kind", "", "Backend kind: mysql, postgres or sqlite")
	rootCmd.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "Data source name, overrides host settings")
	rootCmd.PersistentFlags().StringVar(&opts.path, "path", "", "SQLite database file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log statements to stderr")

	rootCmd.AddCommand(
		queryCmd(opts),
		execCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

func queryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql> [args...]",
		Short: "Run a statement and print the returned rows",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, stmt, err := prepare(ctx, opts, args)
			if err != nil {
				return err
			}
			defer d.Unload()

			rows, err := d.Query(ctx, stmt)
			if err != nil {
				return err
			}
			return printRows(cmd.OutOrStdout(), rows)
		},
	}
}

func execCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <sql> [args...]",
		Short: "Run a statement and print the affected row count",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, stmt, err := prepare(ctx, opts, args)
			if err != nil {
				return err
			}
			defer d.Unload()

			n, err := d.Execute(ctx, stmt)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows affected\n", n)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the library version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), jdbd.Version())
		},
	}
}

func loadConfig(opts *options) (jdbd.Config, error) {
	var cfg jdbd.Config
	if opts.configPath != "" {
		c, err := jdbd.LoadConfigFile(opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = c
	} else if err := jdbd.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	if opts.kind != "" {
		cfg.Kind = jdbd.DriverKind(opts.kind)
	}
	if opts.dsn != "" {
		cfg.DSN = opts.dsn
	}
	if opts.path != "" {
		cfg.Path = opts.path
	}
	if cfg.Kind == "" && cfg.DSN == "" {
		cfg.Kind = jdbd.KindSQLite
	}
	if opts.verbose {
		cfg.Logging.Enabled = true
		cfg.Logging.Format = "text"
	}
	return cfg, nil
}

// prepare loads a driver and binds args[1:] to the statement in args[0].
func prepare(ctx context.Context, opts *options, args []string) (*jdbd.Driver, *jdbd.PreparedStatement, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	stmt := jdbd.NewPreparedStatement(args[0])
	params := args[1:]
	if len(params) != stmt.Placeholders() {
		return nil, nil, fmt.Errorf("statement has %d placeholders, got %d arguments", stmt.Placeholders(), len(params))
	}
	for i, raw := range params {
		if err := stmt.Bind(i, parseArg(raw)); err != nil {
			return nil, nil, err
		}
	}

	d, err := jdbd.NewDriver(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := d.Load(ctx); err != nil {
		return nil, nil, err
	}
	return d, stmt, nil
}

// parseArg maps a command line argument to a parameter value: integers,
// floats, true/false and null are recognized, anything else is a string.
func parseArg(s string) any {
	if strings.EqualFold(s, "null") {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

func printRows(out io.Writer, rows []*jdbd.Row) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if len(rows) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return w.Flush()
	}

	cols := rows[0].Columns()
	fmt.Fprintln(w, strings.Join(cols, "\t"))
	for _, r := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = formatValue(r.Value(c))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	return w.Flush()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	}
	return fmt.Sprint(v)
}
