package main

import (
	"flag"
	"log"

	"catalogd/internal/di"
	"catalogd/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the yaml configuration file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "enable debug logging to the console")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		log.Fatalf("catalogd: %v", err)
	}
}
