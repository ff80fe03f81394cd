package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/ai-apps/internal/display"
	"github.com/quocvuong92/ai-apps/internal/provider"
)

type notFoundError string

func (e notFoundError) Error() string {
	return fmt.Sprintf("app %q not found", string(e))
}

func errNotFound(ref string) error {
	return notFoundError(ref)
}

// appFlags are the editable fields shared by add and update
type appFlags struct {
	name        string
	baseURL     string
	apiKey      string
	description string
	iframeFile  string
	inactive    bool
}

func (f *appFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Unique app name")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "Provider API base URL, e.g. https://api.example.com")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "App API key (sent as a bearer token)")
	cmd.Flags().StringVar(&f.description, "description", "", "Optional description")
	cmd.Flags().StringVar(&f.iframeFile, "iframe-file", "", "File holding the chat widget embed code")
}

// apply copies the flags the user actually set onto cfg
func (f *appFlags) apply(cmd *cobra.Command, cfg *provider.Config) error {
	changed := cmd.Flags().Changed
	if changed("name") {
		cfg.Name = f.name
	}
	if changed("base-url") {
		cfg.SetBaseURL(f.baseURL)
	}
	if changed("api-key") {
		cfg.APIKey = f.apiKey
	}
	if changed("description") {
		cfg.Description = f.description
	}
	if changed("iframe-file") {
		data, err := os.ReadFile(f.iframeFile)
		if err != nil {
			return fmt.Errorf("failed to read embed code: %w", err)
		}
		cfg.IframeEmbedCode = string(data)
	}
	return nil
}

func (app *App) newAppCmd() *cobra.Command {
	appCmd := &cobra.Command{
		Use:     "app",
		Aliases: []string{"apps"},
		Short:   "Manage provider app configurations",
	}

	appCmd.AddCommand(app.newAppListCmd())
	appCmd.AddCommand(app.newAppShowCmd())
	appCmd.AddCommand(app.newAppAddCmd())
	appCmd.AddCommand(app.newAppUpdateCmd())
	appCmd.AddCommand(app.newAppToggleCmd("enable", true))
	appCmd.AddCommand(app.newAppToggleCmd("disable", false))
	appCmd.AddCommand(app.newAppRemoveCmd())
	appCmd.AddCommand(app.newAppURLCmd())
	return appCmd
}

func (app *App) newAppListCmd() *cobra.Command {
	var activeOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List apps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				configs []*provider.Config
				err     error
			)
			if activeOnly {
				configs, err = app.resolver.FindActive(cmd.Context())
			} else {
				configs, err = app.resolver.FindAll(cmd.Context())
			}
			if err != nil {
				return err
			}
			display.ShowConfigs(configs)
			return nil
		},
	}
	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only list active apps")
	return cmd
}

func (app *App) newAppShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show one app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			display.ShowConfig(cfg)
			return nil
		},
	}
}

func (app *App) newAppAddCmd() *cobra.Command {
	var f appFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a provider app",
		Long: `Register a provider app.

Examples:
  ai-apps app add --name support --base-url https://api.example.com --api-key app-xxx
  ai-apps app add --name widget --base-url https://api.example.com --api-key app-yyy \
      --iframe-file embed.html --inactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := provider.New(f.name, f.baseURL, f.apiKey)
			if err := f.apply(cmd, cfg); err != nil {
				return err
			}
			if f.inactive {
				cfg.SetActive(provider.Bool(false))
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := app.resolver.Save(cmd.Context(), cfg, provider.FlushNow); err != nil {
				return err
			}
			display.ShowSuccess(fmt.Sprintf("Added %s (%s)", cfg.Name, cfg.ID()))
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.inactive, "inactive", false, "Create the app disabled")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("base-url")
	_ = cmd.MarkFlagRequired("api-key")
	return cmd
}

func (app *App) newAppUpdateCmd() *cobra.Command {
	var f appFlags
	cmd := &cobra.Command{
		Use:   "update <id|name>",
		Short: "Change an app's settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := f.apply(cmd, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := app.resolver.Save(cmd.Context(), cfg, provider.FlushNow); err != nil {
				return err
			}
			display.ShowSuccess("Updated " + cfg.Name)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (app *App) newAppToggleCmd(use string, active bool) *cobra.Command {
	short := "Allow an app to be called and synced"
	if !active {
		short = "Stop an app from being called or synced"
	}
	return &cobra.Command{
		Use:   use + " <id|name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cfg.SetActive(provider.Bool(active))
			if err := app.resolver.Save(cmd.Context(), cfg, provider.FlushNow); err != nil {
				return err
			}
			display.ShowSuccess(fmt.Sprintf("%s: active=%s", cfg.Name, display.ActiveLabel(cfg.Active)))
			return nil
		},
	}
}

func (app *App) newAppRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id|name>",
		Aliases: []string{"rm"},
		Short:   "Delete an app",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := app.resolver.Remove(cmd.Context(), cfg, provider.FlushNow); err != nil {
				return err
			}
			display.ShowSuccess("Removed " + cfg.Name)
			return nil
		},
	}
}

func (app *App) newAppURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url <id|name> <endpoint>",
		Short: "Print the versioned API URL for an endpoint",
		Long: `Print the versioned API URL for an endpoint.

The endpoint is appended verbatim after /v1, so include the leading slash.

Examples:
  ai-apps app url support /chat-messages`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(display.Out, cfg.APIURL(args[1]))
			return nil
		},
	}
}
