package cmd

import (
	"github.com/asaanloyalty/go-asaanauth/pkg/config"
	"github.com/asaanloyalty/go-asaanauth/pkg/snapshot"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"path"
)

var (
	saveInfo    bool
	snapshotOut string
)

func init() {
	deviceCmd.PersistentFlags().StringVar(&serial, "serial", "", "Serial of the device, any usb device if not specified")
	infoCmd.Flags().BoolVar(&saveInfo, "save", false, "Save the device info into the config directory")
	snapshotCmd.Flags().StringVar(&snapshotOut, "out", "", "Save snapshot as")

	rootCmd.AddCommand(deviceCmd)
	deviceCmd.AddCommand(infoCmd)
	deviceCmd.AddCommand(snapshotCmd)
}

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Device operations",
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the properties and features of the attached device",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := createADBClient()
		if err != nil {
			return err
		}

		info, err := client.DeviceInfo(cmd.Context())
		if err != nil {
			return err
		}

		log.Infof("Serial: %s", info.Serial())
		log.Infof("Device: %s %s (%s)", info.Manufacturer(), info.Model(), info.DeviceName())
		log.Infof("SDK: %d", info.SdkVer())
		log.Infof("Telephony: %t", info.HasTelephony())

		if !saveInfo {
			return nil
		}

		filepath := path.Join(config.GetConfigDirectoryDevicesPath(), info.PreferredFilename())
		log.Infof("Save device info to %s", filepath)
		return info.SaveToFile(filepath)
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Record the identity sources of the attached device",
	Long: `Records the profile contact rows, the accounts and the line number of the attached device
into a YAML file that "discover --snapshot" can read. The file contains personal data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := createADBClient()
		if err != nil {
			return err
		}

		deviceSerial, err := client.Serial()
		if err != nil {
			return err
		}

		snap, err := snapshot.Capture(cmd.Context(), client.Contacts(), client.Accounts())
		if err != nil {
			return err
		}
		snap.Serial = deviceSerial

		filepath := snapshotOut
		if filepath == "" {
			filepath = path.Join(config.GetConfigDirectoryDevicesPath(), deviceSerial+".yaml")
		}

		log.Infof("Save snapshot to %s", filepath)
		return snap.Save(filepath)
	},
}
