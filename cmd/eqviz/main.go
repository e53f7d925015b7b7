package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"eqviz/internal/bootstrap"
	"eqviz/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var apiURL string

	root := &cobra.Command{
		Use:           "eqviz",
		Short:         "Chemical equipment CSV visualizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(apiURL)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
	root.PersistentFlags().StringVar(&apiURL, "api", "", "backend API base URL (overrides config)")

	root.AddCommand(newTUICmd(&apiURL))
	root.AddCommand(newLoginCmd(&apiURL))
	root.AddCommand(newRegisterCmd(&apiURL))
	root.AddCommand(newWhoamiCmd(&apiURL))
	root.AddCommand(newLogoutCmd(&apiURL))
	root.AddCommand(newDatasetsCmd(&apiURL))
	return root
}

func loadApp(apiURL string) (*bootstrap.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	return bootstrap.New(cfg)
}

func newTUICmd(apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the eqviz terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*apiURL)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newLoginCmd(apiURL *string) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain and store an API token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*apiURL)
			if err != nil {
				return err
			}
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			out, err := app.AuthCLI.Login(context.Background(), username, password)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", out.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account username")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newRegisterCmd(apiURL *string) *cobra.Command {
	var username, email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*apiURL)
			if err != nil {
				return err
			}
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			confirm, err := readPassword("Confirm password: ")
			if err != nil {
				return err
			}
			out, err := app.AuthCLI.Register(context.Background(), username, email, password, confirm)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "registered and signed in as %s\n", out.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newWhoamiCmd(apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account behind the stored token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*apiURL)
			if err != nil {
				return err
			}
			out, err := app.AuthCLI.Whoami(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", out.Username, out.Email)
			return nil
		},
	}
}

func newLogoutCmd(apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate and forget the stored token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*apiURL)
			if err != nil {
				return err
			}
			if err := app.AuthCLI.Logout(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newDatasetsCmd(apiURL *string) *cobra.Command {
	datasets := &cobra.Command{Use: "datasets", Short: "Work with uploaded datasets"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent datasets, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*apiURL)
			if err != nil {
				return err
			}
			out, err := app.DatasetCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(out) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no datasets uploaded yet")
				return nil
			}
			for _, d := range out {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\trows=%d flow=%.1f press=%.1f temp=%.1f\n",
					d.ID, d.Filename, d.UploadDate.Local().Format("2006-01-02 15:04"),
					d.TotalCount, d.AvgFlowrate, d.AvgPressure, d.AvgTemperature)
			}
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a dataset's equipment rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*apiURL)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			out, err := app.DatasetCLI.Get(context.Background(), id)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%d rows)\n", out.Filename, out.TotalCount)
			for _, e := range out.Equipment {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s\t%s\tflow=%.1f press=%.1f temp=%.1f\n",
					e.Name, e.Type, e.Flowrate, e.Pressure, e.Temperature)
			}
			return nil
		},
	}

	uploadCmd := &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*apiURL)
			if err != nil {
				return err
			}
			out, err := app.DatasetCLI.Upload(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s (id=%d, %d rows)\n", out.Filename, out.ID, out.TotalCount)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*apiURL)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.DatasetCLI.Delete(context.Background(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted dataset %d\n", id)
			return nil
		},
	}

	reportCmd := &cobra.Command{
		Use:   "report <id>",
		Short: "Download a dataset's PDF report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*apiURL)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			out, err := app.DatasetCLI.SaveReport(context.Background(), id)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d pages)\n", out.Path, out.Pages)
			return nil
		},
	}

	datasets.AddCommand(listCmd, showCmd, uploadCmd, deleteCmd, reportCmd)
	return datasets
}

func parseID(raw string) (int, error) {
	var id int
	if _, err := fmt.Sscanf(raw, "%d", &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid dataset id %q", raw)
	}
	return id, nil
}

// readPassword hides input when stdin is a terminal and falls back to a
// plain line read otherwise (pipes, CI).
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", err
	}
	return line, nil
}
