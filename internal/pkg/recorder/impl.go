package recorder

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"
	"go.etcd.io/bbolt"

	"github.com/celer-network/capps-go/internal/pkg/channel"
	"github.com/celer-network/capps-go/internal/pkg/common"
)

var (
	ErrCountBucketNotFound = errors.New("count bucket doesn't exist")
	ErrSeqBucketNotFound   = errors.New("seq bucket doesn't exist")
)

type SettlementEntry struct {
	ChannelID   hexutil.Bytes `json:"channel_id"`
	SettleCount uint64        `json:"settle_count"`
	LastSeqNum  uint64        `json:"last_seq_num"`
}

type RecorderService struct {
	DatabaseService *common.DatabaseService

	SettlementSource <-chan channel.Settlement
}

func NewRecorderService(i do.Injector) (*RecorderService, error) {
	databaseService := do.MustInvoke[*common.DatabaseService](i)
	settlementSource := do.MustInvokeNamed[<-chan channel.Settlement](i, "settlement-source")

	result := &RecorderService{
		DatabaseService: databaseService,

		SettlementSource: settlementSource,
	}

	echoService, err := do.Invoke[*common.EchoService](i)
	if err != nil {
		return nil, fmt.Errorf("failed to create echo service: %w", err)
	}

	echoService.Register(func(e *echo.Echo) {
		apiGroup := e.Group("/api")

		recorderGroup := apiGroup.Group("/recorder")

		recorderGroup.GET("/settlements", result.GetSettlements)
	})

	return result, nil
}

func (s *RecorderService) Start() {
	go s.processSettlements()
}

func (s *RecorderService) HandleSettlement(settlement channel.Settlement) {
	databaseService := s.DatabaseService

	_ = databaseService.DB.Update(func(tx *bbolt.Tx) error {
		counts := tx.Bucket([]byte(common.RecorderCountBucket))
		if counts == nil {
			return ErrCountBucketNotFound
		}

		seqs := tx.Bucket([]byte(common.RecorderSeqBucket))
		if seqs == nil {
			return ErrSeqBucketNotFound
		}

		key := settlement.ChannelID.Bytes()

		count := common.BytesToUint64(counts.Get(key), 0) + 1

		err := counts.Put(key, common.Uint64ToBytes(count))
		if err != nil {
			return fmt.Errorf("failed to put settle count: %w", err)
		}

		err = seqs.Put(key, common.Uint64ToBytes(settlement.SeqNum))
		if err != nil {
			return fmt.Errorf("failed to put last seq: %w", err)
		}

		return nil
	})
}

func (s *RecorderService) GetSettlements(c echo.Context) error {
	entries := make([]SettlementEntry, 0)

	err := s.DatabaseService.DB.View(func(tx *bbolt.Tx) error {
		counts := tx.Bucket([]byte(common.RecorderCountBucket))
		if counts == nil {
			return ErrCountBucketNotFound
		}

		seqs := tx.Bucket([]byte(common.RecorderSeqBucket))
		if seqs == nil {
			return ErrSeqBucketNotFound
		}

		err := counts.ForEach(func(key, value []byte) error {
			entries = append(entries, SettlementEntry{
				ChannelID:   append(hexutil.Bytes(nil), key...),
				SettleCount: common.BytesToUint64(value, 0),
				LastSeqNum:  common.BytesToUint64(seqs.Get(key), 0),
			})

			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to iterate settlements: %w", err)
		}

		return nil
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read settlements")
	}

	//nolint:wrapcheck
	return c.JSONPretty(http.StatusOK, entries, "  ")
}

func (s *RecorderService) processSettlements() {
	for settlement := range s.SettlementSource {
		s.HandleSettlement(settlement)
	}
}
