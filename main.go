package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/samber/do/v2"

	"github.com/celer-network/capps-go/internal/pkg/channel"
	"github.com/celer-network/capps-go/internal/pkg/common"
	"github.com/celer-network/capps-go/internal/pkg/gomoku"
	"github.com/celer-network/capps-go/internal/pkg/recorder"
	"github.com/celer-network/capps-go/internal/pkg/session"

	"github.com/urfave/cli/v3"
)

type CappsService struct {
	EchoService     *common.EchoService     `do:""`
	DatabaseService *common.DatabaseService `do:""`
	ChainService    *common.ChainService    `do:""`

	SingleSessionService *session.SingleSessionService `do:""`
	MultiSessionService  *session.MultiSessionService  `do:""`
	SingleGomokuService  *gomoku.SingleGomokuService   `do:""`
	MultiGomokuService   *gomoku.MultiGomokuService    `do:""`

	RecorderService *recorder.RecorderService `do:""`
}

func runServer(_ context.Context, cmd *cli.Command) error {
	i := do.New()

	do.ProvideNamedValue(i, "port", cmd.Int("port"))
	do.ProvideNamedValue(i, "data-dir", cmd.String("data-dir"))

	settlementChan := make(chan channel.Settlement, cmd.Int("event-buffer"))
	var settlementSource <-chan channel.Settlement = settlementChan
	var settlementSink chan<- channel.Settlement = settlementChan

	do.ProvideNamedValue(i, "settlement-source", settlementSource)
	do.ProvideNamedValue(i, "settlement-sink", settlementSink)

	do.Provide(i, common.NewEchoService)
	do.Provide(i, common.NewDatabaseService)
	do.Provide(i, common.NewChainService)

	do.Provide(i, session.NewSingleSessionService)
	do.Provide(i, session.NewMultiSessionService)

	do.Provide(i, gomoku.NewSingleGomokuService)
	do.Provide(i, gomoku.NewMultiGomokuService)

	do.Provide(i, recorder.NewRecorderService)

	do.Provide(i, do.InvokeStruct[CappsService])

	cappsService, err := do.Invoke[CappsService](i)
	if err != nil {
		return fmt.Errorf("failed to create capps service: %w", err)
	}

	cappsService.RecorderService.Start()

	//nolint:wrapcheck
	return cappsService.EchoService.Start()
}

func main() {
	_ = godotenv.Load()

	//nolint:exhaustruct
	cmd := &cli.Command{
		Name: "capps",
		Commands: []*cli.Command{
			{
				Name: "server",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "port",
						Value:   3000, //nolint:mnd
						Sources: cli.EnvVars("CAPPS_PORT"),
					},
					&cli.StringFlag{
						Name:    "data-dir",
						Value:   "./capps/data",
						Sources: cli.EnvVars("CAPPS_DATA_DIR"),
					},
					&cli.IntFlag{
						Name:    "event-buffer",
						Value:   1000, //nolint:mnd
						Sources: cli.EnvVars("CAPPS_EVENT_BUFFER"),
					},
				},
				Action: runServer,
			},
		},
		DefaultCommand: "server",
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
