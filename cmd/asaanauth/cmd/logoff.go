package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(logoffCmd)
}

var logoffCmd = &cobra.Command{
	Use:   "logoff",
	Short: "Remove the stored tokens of every provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := createSession(nil).Logoff(); err != nil {
			return err
		}
		log.Info("Signed off")
		return nil
	},
}
