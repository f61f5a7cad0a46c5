package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Verify the configured Jira credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		return authRun(cmd)
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
}

func authRun(cmd *cobra.Command) error {
	client, err := newJiraClient()
	if err != nil {
		return err
	}

	if err := client.Myself(cmdContext(cmd)); err != nil {
		return err
	}

	ui.Success("Credentials OK for %s", viper.GetString("jira.base_url"))
	return nil
}
