package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-httpfacade/internal/app"
	"github.com/samvad-hq/samvad-httpfacade/internal/config"
	"github.com/samvad-hq/samvad-httpfacade/internal/logger"
	"github.com/samvad-hq/samvad-httpfacade/pkg/httpclient"
)

// cli holds state shared by the subcommands of one invocation.
type cli struct {
	configPath string
	clientOpts []httpclient.Option
	runner     *app.Runner
}

// run executes one facadectl invocation and releases everything it opened.
func run(ctx context.Context, args []string, out io.Writer, opts ...httpclient.Option) error {
	c := &cli{clientOpts: opts}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)

	err := root.ExecuteContext(ctx)
	if c.runner != nil {
		err = errors.Join(err, c.runner.Close(context.WithoutCancel(ctx)))
	}
	_ = logger.Close()
	return err
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "facadectl",
		Short:         "Send HTTP calls through the configured client facade",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "YAML/JSON config file (defaults to $FACADE_CONFIG)")

	root.AddCommand(c.getCmd(), c.postCmd(), c.journalCmd())
	return root
}

func (c *cli) setup(ctx context.Context) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	runner, err := app.NewRunner(ctx, cfg, log, c.clientOpts...)
	if err != nil {
		logger.ErrorObj("failed to initialize facade", "error", err.Error())
		return err
	}
	c.runner = runner
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
