package main

import (
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:     "login",
	GroupID: "sync",
	Short:   "Sign in and pull every shared list",
	Long: `Sign in with the server account.

Tasks created while signed out are pushed first, then every list is
fetched without the throttle.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		session, err := app.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}

		ui.Success("Signed in as %s", session.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	GroupID: "sync",
	Short:   "Forget the session, keep local data",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := app.Services().AuthService.Logout(cmd.Context()); err != nil {
			return err
		}

		ui.Success("Signed out")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(loginCmd, logoutCmd)
}
