package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/fintrack/internal/models"
	"github.com/Iron-Ham/fintrack/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the tokens",
	Long: `Sign in with email and password. Missing values are prompted for;
the password is read without echo when stdin is a terminal.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the session and forget the stored tokens",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var (
	loginEmail    string
	loginPassword string

	registerUsername  string
	registerEmail     string
	registerFirstName string
	registerLastName  string
	registerPhone     string
	registerPassword  string
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (prompted when omitted)")

	registerCmd.Flags().StringVar(&registerUsername, "username", "", "Username")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Email")
	registerCmd.Flags().StringVar(&registerFirstName, "first-name", "", "First name")
	registerCmd.Flags().StringVar(&registerLastName, "last-name", "", "Last name")
	registerCmd.Flags().StringVar(&registerPhone, "phone", "", "Phone (optional)")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Password (prompted twice when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	email, err := p.valueOr(loginEmail, "Email", false)
	if err != nil {
		return err
	}
	password, err := p.valueOr(loginPassword, "Password", true)
	if err != nil {
		return err
	}

	return withEnv(func(e *env) error {
		req := models.LoginRequest{Email: email, Password: password}
		if err := e.session.Login(cmd.Context(), req); err != nil {
			return userMessage(err)
		}
		user, _ := e.session.User()
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", user.DisplayName(), user.Email)
		return nil
	})
}

func runRegister(cmd *cobra.Command, args []string) error {
	p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	req := models.RegisterRequest{Phone: registerPhone}

	fields := []struct {
		dst   *string
		flag  string
		label string
	}{
		{&req.Username, registerUsername, "Username"},
		{&req.Email, registerEmail, "Email"},
		{&req.FirstName, registerFirstName, "First name"},
		{&req.LastName, registerLastName, "Last name"},
	}
	for _, f := range fields {
		v, err := p.valueOr(f.flag, f.label, false)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	if registerPassword != "" {
		req.Password = registerPassword
		req.PasswordConfirm = registerPassword
	} else {
		var err error
		if req.Password, err = p.Password("Password"); err != nil {
			return err
		}
		if req.PasswordConfirm, err = p.Password("Confirm password"); err != nil {
			return err
		}
	}

	return withEnv(func(e *env) error {
		if err := e.session.Register(cmd.Context(), req); err != nil {
			return userMessage(err)
		}
		user, _ := e.session.User()
		fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s\n", user.Username)
		return nil
	})
}

func runLogout(cmd *cobra.Command, args []string) error {
	return withEnv(func(e *env) error {
		if _, ok := e.session.Boot(cmd.Context()).(session.Authenticated); !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
			return nil
		}
		e.session.Logout(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	})
}

func runWhoami(cmd *cobra.Command, args []string) error {
	return withEnv(func(e *env) error {
		user, err := e.requireUser(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Username: %s\n", user.Username)
		fmt.Fprintf(out, "Name:     %s\n", user.DisplayName())
		fmt.Fprintf(out, "Email:    %s\n", user.Email)
		fmt.Fprintf(out, "API:      %s\n", e.cfg.API.BaseURL)
		return nil
	})
}
