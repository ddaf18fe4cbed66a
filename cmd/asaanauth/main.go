package main

import (
	"github.com/asaanloyalty/go-asaanauth/cmd/asaanauth/cmd"
	log "github.com/sirupsen/logrus"
)

func main() {

	log.SetFormatter(&log.TextFormatter{ForceColors: true})

	cmd.Execute()
}
