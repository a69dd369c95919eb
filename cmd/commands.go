package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"omninews/internal/api"
	"omninews/internal/app"
	"omninews/internal/core"
	"omninews/internal/server"
)

var rootCmd = &cobra.Command{
	Use:          "omninews",
	Short:        "OmniNews web client",
	Long:         `Serves the OmniNews reader against a remote OmniNews API and manages the local session.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web shell",
	RunE:  runServe,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with demo credentials",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the stored tokens",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")
	whoamiCmd.Flags().Bool("verify", false, "check the access token with the API")

	rootCmd.AddCommand(serveCmd, loginCmd, logoutCmd, whoamiCmd)
}

// openApp loads the configuration and assembles the client
func openApp(ctx context.Context) (*app.App, error) {
	config, err := core.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger := core.NewLogger()
	logger.SetLevel(core.ParseLevel(config.Log.Level))

	return app.New(ctx, config, logger)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := server.New(a)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := a.Auth.DemoLogin(cmd.Context(), email, password)
	if err != nil {
		appErr, _ := core.AsAppError(err)
		return fmt.Errorf("%s", appErr.Message)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", user.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.Auth.Authenticated(cmd.Context()) {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
		return nil
	}
	if err := a.Auth.Logout(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	user, ok := a.Auth.CurrentUser()
	if !ok || !a.Auth.Authenticated(cmd.Context()) {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.DisplayName, user.Email)
	if user.Theme != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\n", user.Theme)
	}

	if verify, _ := cmd.Flags().GetBool("verify"); verify {
		if err := a.API.Auth.VerifyToken(cmd.Context()); err != nil {
			if errors.Is(err, api.ErrSessionExpired) {
				return fmt.Errorf("session expired, sign in again")
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "token: valid")
	}
	return nil
}
