package session

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/celer-network/capps-go/internal/pkg/channel"
)

const stateLen = 1

type Rules struct{}

func (Rules) ApplySettle(rec *Record, payload []byte) error {
	if len(payload) != stateLen {
		return channel.ErrInvalidPayloadLength
	}

	rec.State = payload[0]

	if rec.State == 1 || rec.State == 2 {
		rec.Status = channel.StatusFinalized
	}

	return nil
}

func (Rules) ApplyAction(rec *Record, _ common.Address, action []byte) error {
	if len(action) != stateLen {
		return channel.ErrInvalidPayloadLength
	}

	if action[0] == 1 || action[0] == 2 {
		rec.Status = channel.StatusFinalized
	}

	return nil
}

func (Rules) FinalizeTimeout(_ *Record) (bool, error) {
	return true, nil
}

func (Rules) Outcome(rec *Record, query []byte) (bool, error) {
	if len(query) != stateLen {
		return false, channel.ErrInvalidPayloadLength
	}

	if rec.State != query[0] {
		return false, channel.ErrFalseOutcome
	}

	return true, nil
}
