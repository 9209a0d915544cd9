package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/keep-export/internal/cli"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "export":
		cmd = cli.NewExportCommand()
	case "schedule":
		cmd = cli.NewScheduleCommand()
	case "sandbox":
		cmd = cli.NewSandboxCommand(Version)
	case "history":
		cmd = cli.NewHistoryCommand()

	case "version":
		fmt.Printf("keep-export %s (%s)\n", Version, Commit)
		return

	case "-h", "--help", "help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  export     Export Google Keep notes from a Takeout directory or archive\n")
	fmt.Fprintf(os.Stderr, "  schedule   Repeat an export on a cron schedule\n")
	fmt.Fprintf(os.Stderr, "  sandbox    Run a local notes API for trying the remote exporter\n")
	fmt.Fprintf(os.Stderr, "  history    List recorded export runs\n")
	fmt.Fprintf(os.Stderr, "  version    Print version information\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
