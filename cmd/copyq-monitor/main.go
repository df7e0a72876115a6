// copyq-monitor: clipboard-change watcher for the CopyQ server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cazacugmihai/CopyQ/internal/clip"
	"github.com/cazacugmihai/CopyQ/internal/guard"
	"github.com/cazacugmihai/CopyQ/internal/ipc"
	"github.com/cazacugmihai/CopyQ/internal/monitor"
	"github.com/cazacugmihai/CopyQ/internal/wire"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	v := viper.New()

	root := &cobra.Command{
		Use:   "copyq-monitor",
		Short: "Clipboard change watcher for the CopyQ server",
		Long: `copyq-monitor watches the system clipboard (and, on X11, the PRIMARY
selection) for changes and relays new content to a running CopyQ server over
its local monitor socket. The server pushes clipboard content and settings
back over the same channel.

The server normally spawns this process itself and configures it with a
settings message; the flags below only set the initial state for running it
by hand.

Config file search order (first found wins):
  /etc/copyq/monitor.toml
  $HOME/.config/copyq/monitor.toml
  path supplied via --config

All flags can be set via COPYQ_<FLAG> env vars or config-file keys.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE:      func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:         func(_ *cobra.Command, _ []string) error { return runMonitor(v) },
	}

	f := root.Flags()
	f.String("formats", "", "accepted formats, separated by ';', ',' or whitespace (empty = all)")
	f.Bool("check-clipboard", false, "report clipboard changes to the server")
	f.Bool("copy-clipboard", false, "mirror clipboard changes to the selection")
	f.Bool("check-selection", false, "report selection changes to the server (X11 only)")
	f.Bool("copy-selection", false, "mirror selection changes to the clipboard (X11 only)")
	addLoggingFlags(root)
	addConfigFlag(root)

	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("copyq-monitor %s\n", Version)
		},
	}
}

func runMonitor(v *viper.Viper) error {
	setupLogging(v)

	slog.Info("copyq monitor starting",
		"version", Version,
		"endpoint", ipc.Endpoint(),
	)

	conn, err := ipc.Dial()
	if err != nil {
		// the server is this process's sole reason to exist: no retry
		slog.Error("cannot connect to server", "err", err)
		return fmt.Errorf("connect %s: %w", ipc.Endpoint(), err)
	}

	backend := clip.New()
	defer backend.Close()

	var g guard.Guard = guard.NullGuard{}
	if backend.SupportsSelection() {
		g = guard.New()
	}
	defer g.Close()

	slog.Info("clipboard backend",
		"name", backend.Name(),
		"selection", backend.SupportsSelection(),
	)

	m := monitor.New(backend, g, wire.New(conn), configFromViper(v))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func configFromViper(v *viper.Viper) monitor.Config {
	return monitor.Config{
		Formats:        splitFlagFormats(v.GetString("formats")),
		CheckClipboard: v.GetBool("check-clipboard"),
		CopyClipboard:  v.GetBool("copy-clipboard"),
		CheckSelection: v.GetBool("check-selection"),
		CopySelection:  v.GetBool("copy-selection"),
	}
}
