package cmd

import (
	"github.com/asaanloyalty/go-asaanauth/pkg/cache"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"time"
)

var olderThan time.Duration

func init() {
	cleanupCmd.Flags().DurationVar(&olderThan, "older-than", 7*24*time.Hour,
		"Remove results cached before this long ago")

	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cleanupCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Discovery cache operations",
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove old discovery results from the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		resultCache := cache.NewRedisCache(settings.Cache)
		defer resultCache.Close()

		deleted, err := resultCache.DeleteOlderThan(cmd.Context(), olderThan)
		if err != nil {
			return err
		}

		log.Infof("Removed %d cached results", deleted)
		return nil
	},
}
