package cmd

import (
	"context"
	"github.com/asaanloyalty/go-asaanauth/pkg/adb"
	"github.com/asaanloyalty/go-asaanauth/pkg/cache"
	"github.com/asaanloyalty/go-asaanauth/pkg/discovery"
	"github.com/asaanloyalty/go-asaanauth/pkg/snapshot"
	"github.com/cheggaaa/pb/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	snapshotFile string
	allDevices   bool
	useCache     bool
)

func init() {
	discoverCmd.Flags().StringVar(&serial, "serial", "", "Serial of the device, any usb device if not specified")
	discoverCmd.Flags().StringVar(&snapshotFile, "snapshot", "", "Discover from a snapshot file instead of a device")
	discoverCmd.Flags().BoolVar(&allDevices, "all", false, "Discover every attached device")
	discoverCmd.Flags().BoolVar(&useCache, "cache", false, "Read and store results in the redis cache")
	discoverCmd.MarkFlagsMutuallyExclusive("serial", "snapshot", "all")
	discoverCmd.MarkFlagsMutuallyExclusive("snapshot", "cache")

	rootCmd.AddCommand(discoverCmd)
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover the identity of the device owner",
	Long: `Reads the profile contact of the device owner. If it has no email address,
the Google accounts and the line number of the device are used instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if snapshotFile != "" {
			snap, err := snapshot.Load(snapshotFile)
			if err != nil {
				return err
			}
			return printResult(snap.Serial, discovery.Discover(ctx, snap.Contacts(), snap.AccountsSource()))
		}

		client, err := createADBClient()
		if err != nil {
			return err
		}

		var resultCache *cache.RedisCache
		if useCache {
			resultCache = cache.NewRedisCache(settings.Cache)
			defer resultCache.Close()
		}

		if !allDevices {
			return discoverDevice(ctx, client, resultCache)
		}

		serials, err := client.ListSerials()
		if err != nil {
			return err
		}

		bar := pb.StartNew(len(serials))
		for _, deviceSerial := range serials {
			client.SelectSerial(deviceSerial)
			if err := discoverDevice(ctx, client, resultCache); err != nil {
				log.WithError(err).Errorf("Discovery of %s failed", deviceSerial)
			}
			bar.Increment()
		}
		bar.Finish()
		return nil
	},
}

func discoverDevice(ctx context.Context, client *adb.Client, resultCache *cache.RedisCache) error {
	deviceSerial, err := client.Serial()
	if err != nil {
		return err
	}
	logger := log.WithField("serial", deviceSerial)

	if resultCache != nil {
		cached, err := resultCache.Get(ctx, deviceSerial)
		if err != nil {
			logger.WithError(err).Warn("Could not read cache")
		} else if cached != nil {
			logger.Debug("Use cached result")
			return printYAML(cached)
		}
	}

	result := discovery.Discover(ctx, client.Contacts(), client.Accounts())
	if result != nil && resultCache != nil {
		if err := resultCache.Set(ctx, cache.FromResult(deviceSerial, result), settings.CacheTTL); err != nil {
			logger.WithError(err).Warn("Could not cache result")
		}
	}
	return printResult(deviceSerial, result)
}

func printResult(deviceSerial string, result *discovery.Result) error {
	if result == nil {
		log.Warnf("No profile found for %s", deviceSerial)
		return nil
	}
	return printYAML(cache.FromResult(deviceSerial, result))
}
