package channel

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	ErrNotFound                  = errors.New("channel doesn't exist")
	ErrAlreadyExists             = errors.New("channel already exists")
	ErrInvalidPlayerCount        = errors.New("invalid player count")
	ErrOrderingViolation         = errors.New("players not in ascending order")
	ErrSignatureInvalid          = errors.New("invalid signature")
	ErrStaleSequence             = errors.New("stale sequence number")
	ErrFinalized                 = errors.New("channel already finalized")
	ErrNotInActionMode           = errors.New("channel not in action mode")
	ErrDeadlineNotPassed         = errors.New("deadline hasn't passed")
	ErrOutOfBoundary             = errors.New("move out of boundary")
	ErrSlotOccupied              = errors.New("slot already occupied")
	ErrNotYourTurn               = errors.New("not caller's turn")
	ErrEmptyBoard                = errors.New("empty board state")
	ErrInsufficientOffchainMoves = errors.New("not enough off-chain moves")
	ErrInvalidPayloadLength      = errors.New("invalid payload length")
	ErrFalseOutcome              = errors.New("outcome doesn't match query")
	ErrInvalidBlackID            = errors.New("invalid black id")
	ErrInvalidWinner             = errors.New("invalid winner")
)

type Status uint8

const (
	StatusIdle Status = iota
	StatusSettle
	StatusAction
	StatusFinalized
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSettle:
		return "settle"
	case StatusAction:
		return "action"
	case StatusFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	//nolint:wrapcheck
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("failed to unmarshal status: %w", err)
	}

	switch raw {
	case "idle":
		*s = StatusIdle
	case "settle":
		*s = StatusSettle
	case "action":
		*s = StatusAction
	case "finalized":
		*s = StatusFinalized
	default:
		return fmt.Errorf("unknown status %q", raw)
	}

	return nil
}

type Core struct {
	ChannelID common.Hash      `json:"channel_id"`
	Players   []common.Address `json:"players"`
	Nonce     uint64           `json:"nonce"`
	SeqNum    uint64           `json:"seq_num"`
	Timeout   uint64           `json:"timeout"`
	Deadline  uint64           `json:"deadline"`
	Status    Status           `json:"status"`
}

func (c *Core) CoreInfo() *Core {
	return c
}

type Record interface {
	CoreInfo() *Core
}

type InitiateRequest struct {
	Nonce   uint64           `json:"nonce"`
	Players []common.Address `json:"players"`
	Timeout uint64           `json:"timeout"`
}

type SignedState struct {
	ChannelID common.Hash     `json:"channel_id"`
	SeqNum    uint64          `json:"seq_num"`
	Payload   hexutil.Bytes   `json:"payload"`
	Timeout   uint64          `json:"timeout"`
	Sigs      []hexutil.Bytes `json:"sigs"`
}

type ActionRequest struct {
	ChannelID common.Hash    `json:"channel_id"`
	Caller    common.Address `json:"caller"`
	Action    hexutil.Bytes  `json:"action"`
}

type Settlement struct {
	ChannelID common.Hash `json:"channel_id"`
	SeqNum    uint64      `json:"seq_num"`
}
