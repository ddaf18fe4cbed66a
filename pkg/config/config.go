package config

import (
	"os"
	"path"
)

const ConfigFileName = "config.ini"

func GetConfigDirectoryPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}

	return path.Join(homeDir, ".asaanauth")
}

// Device info and snapshot files are stored here by default
func GetConfigDirectoryDevicesPath() string {
	return path.Join(GetConfigDirectoryPath(), "devices")
}

func GetConfigFilePath() string {
	return path.Join(GetConfigDirectoryPath(), ConfigFileName)
}
