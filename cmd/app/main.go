package main

import (
	"fulfillment/cmd"

	"github.com/labstack/gommon/log"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		log.Fatalf("fulfillment: %v", err)
	}
}
