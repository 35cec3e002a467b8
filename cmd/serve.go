package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/twfolio/scheduler"
	"github.com/etnz/twfolio/server"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the HTTP API" }
func (*serveCmd) Usage() string {
	return `twfolio serve [-addr <host:port>]

  Serves the JSON API and refreshes the price sheet in the background.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address, overrides the configuration")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(func(a *app) subcommands.ExitStatus {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		sched := scheduler.New(a.log)
		job := scheduler.NewSnapshotJob(a.snapshot, time.Minute)
		if err := sched.RunNow(job); err != nil {
			a.log.Warn().Err(err).Msg("initial price sheet load failed")
		}
		if err := sched.AddJob(a.cfg.Prices.Refresh, job); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid refresh schedule %q: %v\n", a.cfg.Prices.Refresh, err)
			return subcommands.ExitFailure
		}
		sched.Start()
		defer sched.Stop()

		addr := a.cfg.Server.Addr
		if c.addr != "" {
			addr = c.addr
		}
		srv := server.New(server.Config{Addr: addr, Log: a.log, Service: a.service})
		errc := make(chan error, 1)
		go func() { errc <- srv.Start() }()

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
		case <-ctx.Done():
			shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdown); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
		}
		return subcommands.ExitSuccess
	})
}
