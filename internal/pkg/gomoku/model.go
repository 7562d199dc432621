package gomoku

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/celer-network/capps-go/internal/pkg/channel"
)

type Record struct {
	channel.Core

	Board             hexutil.Bytes `json:"board,omitempty"`
	StoneCount        uint16        `json:"stone_count"`
	OnchainStoneCount uint16        `json:"onchain_stone_count"`
	MinOffchainStones uint8         `json:"min_offchain_stones"`
	MaxOnchainStones  uint8         `json:"max_onchain_stones"`
}

func newRecord() *Record {
	//nolint:exhaustruct
	return &Record{}
}

type InitiateRequest struct {
	channel.InitiateRequest

	MinOffchainStones uint8 `json:"min_offchain_stones"`
	MaxOnchainStones  uint8 `json:"max_onchain_stones"`
}

type StateResponse struct {
	Value hexutil.Bytes `json:"value"`
}
