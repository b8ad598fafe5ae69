package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-httpfacade/pkg/httpclient"
)

type callFlags struct {
	headers []string
	query   []string
	timeout time.Duration
}

func (f *callFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", nil, "Request header as key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&f.query, "query", "q", nil, "Query parameter as key=value (repeatable)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Per-call timeout overriding the client timeout")
}

func (f *callFlags) requestConfig() (httpclient.RequestConfig, error) {
	headers, err := parsePairs("header", f.headers)
	if err != nil {
		return httpclient.RequestConfig{}, err
	}
	query, err := parsePairs("query", f.query)
	if err != nil {
		return httpclient.RequestConfig{}, err
	}
	return httpclient.RequestConfig{Headers: headers, Query: query, Timeout: f.timeout}, nil
}

func (c *cli) getCmd() *cobra.Command {
	var flags callFlags
	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Send a GET request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := flags.requestConfig()
			if err != nil {
				return err
			}
			out, err := c.runner.Do(cmd.Context(), http.MethodGet, args[0], nil, rc)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
		Example: `
	facadectl get /users --query page=2 -H X-Trace=1
	facadectl get https://api.example.com/health --timeout 2s`,
	}
	flags.bind(cmd)
	return cmd
}

func (c *cli) postCmd() *cobra.Command {
	var (
		flags callFlags
		data  string
	)
	cmd := &cobra.Command{
		Use:   "post <path>",
		Short: "Send a POST request with a JSON body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := flags.requestConfig()
			if err != nil {
				return err
			}
			var body any
			if strings.TrimSpace(data) != "" {
				if !json.Valid([]byte(data)) {
					return fmt.Errorf("--data must be valid JSON")
				}
				body = json.RawMessage(data)
				if rc.Headers == nil {
					rc.Headers = map[string]string{}
				}
				if _, ok := rc.Headers["Content-Type"]; !ok {
					rc.Headers["Content-Type"] = "application/json"
				}
			}
			out, err := c.runner.Do(cmd.Context(), http.MethodPost, args[0], body, rc)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
		Example: `
	facadectl post /users --data '{"name":"asha"}'`,
	}
	flags.bind(cmd)
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	return cmd
}

func parsePairs(kind string, raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(raw))
	for _, pair := range raw {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid %s %q (expected key=value)", kind, pair)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}
