package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/label-verify/internal/server"
	"github.com/ironsheep/label-verify/internal/web"
)

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newMCPCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdin/stdout",
		Long: `Run the Model Context Protocol server over stdin/stdout.

Configure it in your MCP client (e.g., Claude Desktop). Tools:
  label_verify, label_verify_text, label_ocr, label_normalize, label_warning_text`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(cmd, opts)
		},
	}
}

func runMCP(cmd *cobra.Command, opts *globalOptions) error {
	rt, err := opts.setup(cmd, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	srv := server.New(rt.svc, rt.logger, buildVersion)
	if err := srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func newServeCmd(opts *globalOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API until interrupted.

Routes:
  POST /verify        multipart form: label_image file plus brand_name,
                      product_class, alcohol_content, net_contents
  POST /verify/text   JSON: ocr_text plus the same fields
  GET  /healthz       liveness and OCR backend`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.setup(cmd, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			if cmd.Flags().Changed("port") {
				rt.cfg.HTTP.Port = port
				if err := rt.cfg.Validate(); err != nil {
					return fmt.Errorf("invalid configuration: %w", err)
				}
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			addr := fmt.Sprintf(":%d", rt.cfg.HTTP.Port)
			return web.New(rt.svc, rt.cfg.HTTP, rt.logger).ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from PORT or 5000)")
	return cmd
}
