package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/breez/clnconf/cln"
	"github.com/breez/clnconf/readiness"
	"github.com/lightningnetwork/lnd/ticker"
	"github.com/urfave/cli"
)

var waitReadyCommand = cli.Command{
	Name:  "wait-ready",
	Usage: "Block until the lightning rpc socket exists, then link it into shared directories.",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "socket",
			Usage: "Path of the lightning rpc socket",
			Value: cln.DefaultSocketPath,
		},
		cli.StringSliceFlag{
			Name:  "link",
			Usage: "Directory to hard link the socket into. May be repeated.",
		},
		cli.DurationFlag{
			Name:  "interval",
			Usage: "How often to check for the socket",
			Value: readiness.DefaultInterval,
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "Give up after this long. Zero waits forever.",
		},
	},
	Action: func(ctx *cli.Context) error {
		waitCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if timeout := ctx.Duration("timeout"); timeout > 0 {
			var cancel context.CancelFunc
			waitCtx, cancel = context.WithTimeout(waitCtx, timeout)
			defer cancel()
		}

		return waitReady(
			waitCtx,
			ctx.String("socket"),
			ctx.StringSlice("link"),
			ticker.New(ctx.Duration("interval")),
		)
	},
}

func waitReady(ctx context.Context, socket string, links []string, t ticker.Ticker) error {
	if err := readiness.WaitForFile(ctx, socket, t); err != nil {
		return err
	}
	return readiness.LinkInto(socket, links)
}
