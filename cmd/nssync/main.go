package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/justmara/ns-sync/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg, rootFlags := config.NewFlagSet("nssync")

	a := &app{cfg: cfg, out: out}
	var root *ffcli.Command
	root = &ffcli.Command{
		Name:       "nssync",
		ShortUsage: "nssync [flags] <subcommand> [subcommand flags]",
		FlagSet:    rootFlags,
		Options:    config.Options(),
		Subcommands: []*ffcli.Command{
			a.checkCommand(),
			a.fetchCommand("glucose", "sensor glucose readings"),
			a.fetchCommand("carbs", "carb entries from other sources"),
			a.fetchCommand("temptargets", "temporary targets from other sources"),
			a.fetchCommand("announcements", "remote announcements"),
			a.deleteCommand("delete-carbs", "carbs"),
			a.deleteCommand("delete-insulin", "insulin"),
			a.uploadCommand(),
			a.importProfileCommand(),
			a.showProfileCommand(),
			a.exportCommand(),
		},
		Exec: func(context.Context, []string) error {
			fmt.Fprintln(os.Stderr, ffcli.DefaultUsageFunc(root))
			return flag.ErrHelp
		},
	}
	return root.ParseAndRun(ctx, args)
}
