package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrlokans/keep-export/internal/config"
	"github.com/mrlokans/keep-export/internal/database"
	"github.com/mrlokans/keep-export/internal/sandbox"
)

// SandboxCommand runs the local sandbox note service
type SandboxCommand struct {
	Config  config.Sandbox
	Version string
}

func NewSandboxCommand(version string) *SandboxCommand {
	return &SandboxCommand{Version: version}
}

func (cmd *SandboxCommand) ParseFlags(args []string) error {
	cmd.Config = config.NewConfig().Sandbox
	fs := flag.NewFlagSet("sandbox", flag.ExitOnError)

	var port int
	fs.StringVar(&cmd.Config.Host, "host", cmd.Config.Host, "Address to listen on")
	fs.IntVar(&port, "port", int(cmd.Config.Port), "Port to listen on")
	fs.StringVar(&cmd.Config.Token, "token", cmd.Config.Token, "Bearer token clients must present")
	fs.StringVar(&cmd.Config.DatabasePath, "db", cmd.Config.DatabasePath, "Database storing the received notes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sandbox [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Run a local notes API that stores notes in SQLite, for trial runs of\n")
		fmt.Fprintf(os.Stderr, "the remote exporter.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s sandbox -port 8190 -token secret\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -exporter remote -api-url http://127.0.0.1:8190 -token secret ./Takeout\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Config.Token == "" {
		return fmt.Errorf("a non-empty -token is required")
	}
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %d", port)
	}
	cmd.Config.Port = int32(port)

	return nil
}

func (cmd *SandboxCommand) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDatabase(cmd.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	router := sandbox.NewRouter(sandbox.RouterConfig{
		DB:      db,
		Token:   cmd.Config.Token,
		Version: cmd.Version,
	})

	return sandbox.Serve(ctx, router, cmd.Config)
}
