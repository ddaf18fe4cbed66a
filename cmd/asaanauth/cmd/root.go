package cmd

import (
	"fmt"
	"github.com/asaanloyalty/go-asaanauth/pkg/adb"
	"github.com/asaanloyalty/go-asaanauth/pkg/config"
	"github.com/goccy/go-yaml"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool
	serial     string

	settings *config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "asaanauth",
	Short: "Sign in with Google or Facebook and discover the identity of the device owner",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}

		var err error
		settings, err = config.Load(configFile)
		return err
	},
}

func Execute() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Config file, default is ~/.asaanauth/config.ini")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug messages")

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// Connects to the adb server, --serial overrides the configured device
func createADBClient() (*adb.Client, error) {
	adbConfig := settings.ADB
	if serial != "" {
		adbConfig.Serial = serial
	}
	return adb.CreateClient(adbConfig)
}

func printYAML(value interface{}) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
