package common

import (
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"
	bolt "go.etcd.io/bbolt"
)

const chainHeightKey = "height"

var ErrHeightBucketNotFound = errors.New("height bucket doesn't exist")

type AdvanceRequest struct {
	Blocks uint64 `json:"blocks"`
}

type HeightResponse struct {
	Height uint64 `json:"height"`
}

type ChainService struct {
	DatabaseService *DatabaseService

	height atomic.Uint64
}

func NewChainService(i do.Injector) (*ChainService, error) {
	databaseService := do.MustInvoke[*DatabaseService](i)

	result := &ChainService{
		DatabaseService: databaseService,
	}

	err := databaseService.DB.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ChainHeightBucket))
		if bucket == nil {
			return ErrHeightBucketNotFound
		}

		result.height.Store(BytesToUint64(bucket.Get([]byte(chainHeightKey)), 1))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load block height: %w", err)
	}

	echoService, err := do.Invoke[*EchoService](i)
	if err != nil {
		return nil, fmt.Errorf("failed to create echo service: %w", err)
	}

	echoService.Register(func(e *echo.Echo) {
		apiGroup := e.Group("/api")

		chainGroup := apiGroup.Group("/chain")

		chainGroup.GET("/height", result.GetHeight)
		chainGroup.POST("/advance", result.PostAdvance)
	})

	return result, nil
}

func (s *ChainService) Height() uint64 {
	return s.height.Load()
}

func (s *ChainService) Advance(blocks uint64) (uint64, error) {
	var next uint64

	err := s.DatabaseService.DB.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ChainHeightBucket))
		if bucket == nil {
			return ErrHeightBucketNotFound
		}

		next = BytesToUint64(bucket.Get([]byte(chainHeightKey)), 1) + blocks

		err := bucket.Put([]byte(chainHeightKey), Uint64ToBytes(next))
		if err != nil {
			return fmt.Errorf("failed to put block height: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to advance block height: %w", err)
	}

	s.height.Store(next)

	return next, nil
}

func (s *ChainService) GetHeight(c echo.Context) error {
	//nolint:wrapcheck
	return c.JSONPretty(http.StatusOK, HeightResponse{Height: s.Height()}, "  ")
}

func (s *ChainService) PostAdvance(c echo.Context) error {
	var req AdvanceRequest

	err := c.Bind(&req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	blocks := req.Blocks
	if blocks == 0 {
		blocks = 1
	}

	height, err := s.Advance(blocks)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to advance block height")
	}

	//nolint:wrapcheck
	return c.JSONPretty(http.StatusOK, HeightResponse{Height: height}, "  ")
}
