package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"trackmyprogress/internal/session"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type credentialFlags struct {
	name     string
	email    string
	password string
}

func (c *cli) loginCmd() *cobra.Command {
	var f credentialFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Long: `Sign in with email and password.

Examples:
  # Sign in with the demo account
  tmp login --email demo@example.com --password password

  # Prompt for the password
  tmp login --email you@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := c.passwordFor(f.password)
			if err != nil {
				return err
			}
			return c.withManager(cmd.Context(), func(m *session.Manager) error {
				if err := m.Login(cmd.Context(), f.email, password); err != nil {
					return c.report(m, err)
				}
				u := m.CurrentUser()
				fmt.Fprintf(c.stdout, "Signed in as %s <%s>\n", u.Name, u.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&f.password, "password", "", "account password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var f credentialFlags
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := c.passwordFor(f.password)
			if err != nil {
				return err
			}
			return c.withManager(cmd.Context(), func(m *session.Manager) error {
				if err := m.Register(cmd.Context(), f.name, f.email, password); err != nil {
					return c.report(m, err)
				}
				u := m.CurrentUser()
				fmt.Fprintf(c.stdout, "Welcome, %s! Signed in as %s\n", u.Name, u.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&f.email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&f.password, "password", "", "account password (prompted when empty)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withManager(cmd.Context(), func(m *session.Manager) error {
				if err := m.Logout(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(c.stdout, "Signed out")
				return nil
			})
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withManager(cmd.Context(), func(m *session.Manager) error {
				u := m.CurrentUser()
				if u == nil {
					fmt.Fprintln(c.stdout, "Not signed in")
					return nil
				}
				fmt.Fprintf(c.stdout, "%s <%s>\nid: %s\nsince: %s\n",
					u.Name, u.Email, u.ID, u.CreatedAt.Format("2006-01-02 15:04:05 MST"))
				return nil
			})
		},
	}
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the authentication status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withManager(cmd.Context(), func(m *session.Manager) error {
				fmt.Fprintln(c.stdout, m.Status())
				return nil
			})
		},
	}
}

// passwordFor returns flagValue, or reads a password from the terminal without
// echo. When stdin is not a terminal a single line is read instead.
func (c *cli) passwordFor(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	if f, ok := c.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(c.stderr, "Password: ")
		pw, err := readPassword(int(f.Fd()))
		fmt.Fprintln(c.stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(c.stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
