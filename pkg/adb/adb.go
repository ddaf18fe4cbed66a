package adb

import (
	"context"
	"fmt"
	"github.com/asaanloyalty/go-asaanauth/pkg/device"
	log "github.com/sirupsen/logrus"
	goadb "github.com/zach-klippenstein/goadb"
)

const (
	DefaultLineNumberService = "iphonesubinfo"
	// getLine1Number transaction code, differs between Android releases
	DefaultLineNumberCode = 15
)

type Config struct {
	Host string
	Port int
	// Empty selects any usb device
	Serial string

	LineNumberService string
	LineNumberCode    int
}

type Client struct {
	adb    *goadb.Adb
	dev    *goadb.Device
	shell  device.Shell
	config Config
}

func CreateClient(config Config) (*Client, error) {
	if config.LineNumberService == "" {
		config.LineNumberService = DefaultLineNumberService
	}
	if config.LineNumberCode == 0 {
		config.LineNumberCode = DefaultLineNumberCode
	}

	adb, err := goadb.NewWithConfig(goadb.ServerConfig{
		Host: config.Host,
		Port: config.Port,
	})
	if err != nil {
		return nil, err
	}

	client := &Client{
		adb:    adb,
		config: config,
	}

	if config.Serial != "" {
		client.SelectSerial(config.Serial)
	} else {
		client.SelectAnyUsbDevice()
	}
	return client, nil
}

func (client *Client) SelectAnyUsbDevice() {
	client.dev = client.adb.Device(
		goadb.AnyUsbDevice(),
	)
	client.shell = client.dev
}

func (client *Client) SelectSerial(serial string) {
	client.dev = client.adb.Device(
		goadb.DeviceWithSerial(serial),
	)
	client.shell = client.dev
}

func (client *Client) ListSerials() ([]string, error) {
	return client.adb.ListDeviceSerials()
}

func (client *Client) Device() *goadb.Device {
	return client.dev
}

func (client *Client) Serial() (string, error) {
	return client.dev.Serial()
}

// DeviceInfo reads the properties and features of the selected device
func (client *Client) DeviceInfo(ctx context.Context) (*device.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return device.Load(client.shell)
}

func (client *Client) run(ctx context.Context, cmd string, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	log.Tracef("adb shell %s %v", cmd, args)

	output, err := client.shell.RunCommand(cmd, args...)
	if err != nil {
		return "", fmt.Errorf("adb shell %s: %w", cmd, err)
	}
	return output, nil
}
