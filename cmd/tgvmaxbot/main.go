package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/JRomainG/TGVMaxBot/internal/app"
	"github.com/JRomainG/TGVMaxBot/internal/version"

	_ "time/tzdata"
)

func main() {
	flags := pflag.NewFlagSet("tgvmaxbot", pflag.ExitOnError)
	logLevel := flags.String("log-level", "", "log level: debug, info, warn or error (overrides TGVMAX_LOG_LEVEL)")
	profiles := flags.StringP("profiles", "p", "", "YAML profiles file (overrides TGVMAX_PROFILES_FILE)")
	showVersion := flags.BoolP("version", "v", false, "print the version and exit")
	_ = flags.Parse(os.Args[1:])

	if *showVersion {
		fmt.Println("tgvmaxbot", version.String())
		return
	}

	// flags win over the environment config.Load reads
	if flags.Changed("log-level") {
		_ = os.Setenv("TGVMAX_LOG_LEVEL", *logLevel)
	}
	if flags.Changed("profiles") {
		_ = os.Setenv("TGVMAX_PROFILES_FILE", *profiles)
	}

	a, err := app.New()
	if err != nil {
		log.Fatalf("❌ tgvmaxbot failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ tgvmaxbot failed: %v", err)
	}
}
