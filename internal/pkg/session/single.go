package session

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"

	"github.com/celer-network/capps-go/internal/pkg/channel"
	"github.com/celer-network/capps-go/internal/pkg/common"
)

type SingleSessionService struct {
	DatabaseService *common.DatabaseService
	ChainService    *common.ChainService

	engine *channel.Engine[*Record]
}

func NewSingleSessionService(i do.Injector) (*SingleSessionService, error) {
	databaseService := do.MustInvoke[*common.DatabaseService](i)
	chainService := do.MustInvoke[*common.ChainService](i)
	settlementSink := do.MustInvokeNamed[chan<- channel.Settlement](i, "settlement-sink")

	//nolint:exhaustruct
	result := &SingleSessionService{
		DatabaseService: databaseService,
		ChainService:    chainService,
	}

	result.engine = channel.NewEngine(channel.Config[*Record]{
		Account: channel.ModuleAddress(channel.SingleSessionAccount),
		Rules:   Rules{},
		Count:   channel.CountExactlyTwo,
		Quorum:  channel.UnorderedPairQuorum,
		Repo:    channel.NewBoltRepository(databaseService.DB, common.SingleSessionBucket, newRecord),
		Clock:   chainService,
		Sink:    settlementSink,
	})

	echoService, err := do.Invoke[*common.EchoService](i)
	if err != nil {
		return nil, fmt.Errorf("failed to create echo service: %w", err)
	}

	echoService.Register(func(e *echo.Echo) {
		apiGroup := e.Group("/api")

		singleGroup := apiGroup.Group("/session/single")

		singleGroup.POST("/initiate", result.PostInitiate)
		singleGroup.GET("/:id/state", result.GetState)

		channel.RegisterRoutes(singleGroup, result.engine)
	})

	return result, nil
}

func (s *SingleSessionService) PostInitiate(c echo.Context) error {
	var request channel.InitiateRequest

	err := c.Bind(&request)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	rec, err := s.engine.Initiate(&request, func(core channel.Core) *Record {
		//nolint:exhaustruct
		return &Record{Core: core}
	})
	if err != nil {
		return channel.HTTPError(err)
	}

	//nolint:wrapcheck
	return c.JSONPretty(http.StatusOK, channel.NewChannelView(rec.CoreInfo()), "  ")
}

func (s *SingleSessionService) GetState(c echo.Context) error {
	rec, err := s.engine.Channel(channel.PathChannelID(c))
	if err != nil {
		return channel.HTTPError(err)
	}

	//nolint:wrapcheck
	return c.JSONPretty(http.StatusOK, StateResponse{Value: rec.State}, "  ")
}
