package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/ai-apps/internal/api"
	"github.com/quocvuong92/ai-apps/internal/display"
	"github.com/quocvuong92/ai-apps/internal/logging"
	"github.com/quocvuong92/ai-apps/internal/request"
)

func (app *App) newCallCmd() *cobra.Command {
	var retry bool
	cmd := &cobra.Command{
		Use:   "call <id|name> <" + strings.Join(request.Names(), "|") + ">",
		Short: "Send a request to an app and print the response",
		Long: `Send a read-only request to an app and print the response body.

The app must be active. Failed responses show the provider's status, error
code and message.

Examples:
  ai-apps call support info
  ai-apps call support parameters --render`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return request.Names(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, ok := request.ByName(args[1])
			if !ok {
				return fmt.Errorf("unknown request %q. Use one of: %s", args[1], strings.Join(request.Names(), ", "))
			}

			cfg, err := app.lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			d := app.newDispatcher()
			if err := d.Bind(cfg); err != nil {
				return err
			}

			if app.cfg.Render {
				if err := display.InitRenderer(); err != nil {
					app.logger.Warn("failed to initialize renderer", logging.Fields{"error": err.Error()})
				}
			}

			sp := display.NewSpinner(fmt.Sprintf("Calling %s %s...", cfg.Name, desc.Path()))
			sp.Start()
			var resp *api.Response
			if retry {
				resp, err = api.WithRetry(cmd.Context(), func() (*api.Response, error) {
					return d.Send(cmd.Context(), desc)
				})
			} else {
				resp, err = d.Send(cmd.Context(), desc)
			}
			sp.Stop()

			var perr *api.ProviderError
			if errors.As(err, &perr) {
				showProviderError(perr)
				return fmt.Errorf("%s %s failed with status %d", cfg.Name, desc.Path(), perr.Status)
			}
			if err != nil {
				return err
			}

			display.ShowBody(resp.Body)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&app.cfg.Render, "render", "r", false, "Render the JSON body with colors and formatting")
	cmd.Flags().BoolVar(&retry, "retry", false, "Retry rate limits and gateway errors with backoff")
	return cmd
}

func showProviderError(perr *api.ProviderError) {
	line := fmt.Sprintf("status %d: %s", perr.Status, perr.Message)
	if perr.HasCode() {
		line = fmt.Sprintf("status %d (%s): %s", perr.Status, perr.Code, perr.Message)
	}
	display.ShowWarning(line)
	if perr.Response != nil && len(perr.Response.Body) > 0 {
		display.ShowBody(perr.Response.Body)
	}
}
