package gomoku

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"

	"github.com/celer-network/capps-go/internal/pkg/channel"
	"github.com/celer-network/capps-go/internal/pkg/common"
)

type MultiGomokuService struct {
	DatabaseService *common.DatabaseService
	ChainService    *common.ChainService

	engine *channel.Engine[*Record]
	rules  Rules
}

func NewMultiGomokuService(i do.Injector) (*MultiGomokuService, error) {
	databaseService := do.MustInvoke[*common.DatabaseService](i)
	chainService := do.MustInvoke[*common.ChainService](i)
	settlementSink := do.MustInvokeNamed[chan<- channel.Settlement](i, "settlement-sink")

	//nolint:exhaustruct
	result := &MultiGomokuService{
		DatabaseService: databaseService,
		ChainService:    chainService,
	}

	result.rules = MultiRules()
	result.engine = channel.NewEngine(channel.Config[*Record]{
		Account: channel.ModuleAddress(channel.MultiGomokuAccount),
		Rules:   result.rules,
		Count:   channel.CountExactlyTwo,
		Quorum:  channel.PositionalQuorum,
		Repo:    channel.NewBoltRepository(databaseService.DB, common.MultiGomokuBucket, newRecord),
		Clock:   chainService,
		Sink:    settlementSink,
	})

	echoService, err := do.Invoke[*common.EchoService](i)
	if err != nil {
		return nil, fmt.Errorf("failed to create echo service: %w", err)
	}

	echoService.Register(func(e *echo.Echo) {
		apiGroup := e.Group("/api")

		multiGroup := apiGroup.Group("/gomoku/multi")

		multiGroup.POST("/initiate", result.PostInitiate)
		multiGroup.GET("/:id/state", result.GetState)

		channel.RegisterRoutes(multiGroup, result.engine)
	})

	return result, nil
}

func (s *MultiGomokuService) PostInitiate(c echo.Context) error {
	var request InitiateRequest

	err := c.Bind(&request)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	rec, err := s.engine.Initiate(&request.InitiateRequest, func(core channel.Core) *Record {
		//nolint:exhaustruct
		return &Record{
			Core:              core,
			MinOffchainStones: request.MinOffchainStones,
			MaxOnchainStones:  request.MaxOnchainStones,
		}
	})
	if err != nil {
		return channel.HTTPError(err)
	}

	//nolint:wrapcheck
	return c.JSONPretty(http.StatusOK, channel.NewChannelView(rec.CoreInfo()), "  ")
}

func (s *MultiGomokuService) GetState(c echo.Context) error {
	key, err := strconv.ParseUint(c.QueryParam("key"), 10, 8)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid state key")
	}

	rec, err := s.engine.Channel(channel.PathChannelID(c))
	if err != nil {
		return channel.HTTPError(err)
	}

	value, err := s.rules.StateValue(rec, uint8(key))
	if err != nil {
		if errors.Is(err, ErrInvalidStateKey) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid state key")
		}

		return channel.HTTPError(err)
	}

	//nolint:wrapcheck
	return c.JSONPretty(http.StatusOK, StateResponse{Value: value}, "  ")
}
