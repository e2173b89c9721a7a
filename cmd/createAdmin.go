package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Kariqs/bookstore-api/initializers"
	"github.com/Kariqs/bookstore-api/routes"
	"github.com/Kariqs/bookstore-api/services"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	adminName  string
	adminEmail string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account or promote an existing user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := connect()
		if err != nil {
			return err
		}
		defer initializers.CloseDB()
		if err := initializers.SyncDatabase(); err != nil {
			return err
		}

		password, err := readPassword(cmd.OutOrStdout(), os.Stdin, "Password (ignored for existing users): ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		tokens := routes.NewTokenService(cfg, initializers.DB, nil)
		auth := services.NewAuthService(initializers.DB, tokens, nil, initializers.Logger)
		user, err := auth.GrantAdmin(cmd.Context(), adminName, adminEmail, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now an admin\n", user.Name, user.Email)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "display name for a new account")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "email of the account")
	_ = createAdminCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(createAdminCmd)
}

// readPassword masks input on a terminal and reads one line otherwise.
func readPassword(out io.Writer, in *os.File, prompt string) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	fmt.Fprint(out, prompt)
	bytePassword, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(bytePassword)), nil
}
