package channel

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

const minPlayers = 2

type Clock interface {
	Height() uint64
}

type CountPolicy func(count int) error

func CountExactlyTwo(count int) error {
	if count != minPlayers {
		return ErrInvalidPlayerCount
	}

	return nil
}

func CountAtLeastTwo(count int) error {
	if count < minPlayers {
		return ErrInvalidPlayerCount
	}

	return nil
}

type Ruleset[R Record] interface {
	ApplySettle(rec R, payload []byte) error
	ApplyAction(rec R, caller common.Address, action []byte) error
	FinalizeTimeout(rec R) (bool, error)
	Outcome(rec R, query []byte) (bool, error)
}

type Config[R Record] struct {
	Account common.Address
	Rules   Ruleset[R]
	Count   CountPolicy
	Quorum  QuorumPolicy
	Repo    Repository[R]
	Clock   Clock
	Sink    chan<- Settlement
}

type Engine[R Record] struct {
	account common.Address
	rules   Ruleset[R]
	count   CountPolicy
	quorum  QuorumPolicy
	repo    Repository[R]
	clock   Clock
	sink    chan<- Settlement
}

func NewEngine[R Record](config Config[R]) *Engine[R] {
	return &Engine[R]{
		account: config.Account,
		rules:   config.Rules,
		count:   config.Count,
		quorum:  config.Quorum,
		repo:    config.Repo,
		clock:   config.Clock,
		sink:    config.Sink,
	}
}

func (e *Engine[R]) Initiate(request *InitiateRequest, build func(core Core) R) (R, error) {
	var zero R

	err := e.count(len(request.Players))
	if err != nil {
		return zero, err
	}

	if !OrderedPlayers(request.Players) {
		return zero, ErrOrderingViolation
	}

	id := DeriveChannelID(e.account, request.Nonce, request.Players)

	rec := build(Core{
		ChannelID: id,
		Players:   request.Players,
		Nonce:     request.Nonce,
		SeqNum:    0,
		Timeout:   request.Timeout,
		Deadline:  0,
		Status:    StatusIdle,
	})

	err = e.repo.Insert(id, rec)
	if err != nil {
		return zero, err
	}

	return rec, nil
}

func (e *Engine[R]) SubmitState(state *SignedState) (R, error) {
	now := e.clock.Height()

	var out R

	err := e.repo.Mutate(state.ChannelID, func(rec R) error {
		out = rec
		core := rec.CoreInfo()

		if len(state.Sigs) != len(core.Players) {
			return ErrSignatureInvalid
		}

		digest := ComputeDigest(state)

		err := e.quorum(digest, state.Sigs, core.Players)
		if err != nil {
			return err
		}

		if core.Status == StatusFinalized {
			return ErrFinalized
		}

		if state.SeqNum <= core.SeqNum {
			return ErrStaleSequence
		}

		err = e.rules.ApplySettle(rec, state.Payload)
		if err != nil {
			return err
		}

		core.SeqNum = state.SeqNum

		if core.Status != StatusFinalized {
			core.Status = StatusSettle
			core.Deadline = now + core.Timeout
		}

		return nil
	})
	if err != nil {
		var zero R

		return zero, err
	}

	if e.sink != nil {
		e.sink <- Settlement{
			ChannelID: state.ChannelID,
			SeqNum:    state.SeqNum,
		}
	}

	return out, nil
}

func (e *Engine[R]) SubmitAction(id common.Hash, caller common.Address, action []byte) (R, error) {
	now := e.clock.Height()

	var out R

	err := e.repo.Mutate(id, func(rec R) error {
		out = rec
		core := rec.CoreInfo()

		if core.Status == StatusFinalized {
			return ErrFinalized
		}

		if core.Status == StatusSettle && now > core.Deadline {
			core.Status = StatusAction
		}

		if core.Status != StatusAction {
			return ErrNotInActionMode
		}

		err := e.rules.ApplyAction(rec, caller, action)
		if err != nil {
			return err
		}

		core.SeqNum++

		if core.Status != StatusFinalized {
			core.Deadline = now + core.Timeout
		}

		return nil
	})
	if err != nil {
		var zero R

		return zero, err
	}

	return out, nil
}

func (e *Engine[R]) FinalizeOnTimeout(id common.Hash) (R, bool, error) {
	now := e.clock.Height()

	finalized := false

	var out R

	err := e.repo.Mutate(id, func(rec R) error {
		out = rec
		core := rec.CoreInfo()

		switch core.Status {
		case StatusAction:
			if now <= core.Deadline {
				return ErrDeadlineNotPassed
			}
		case StatusSettle:
			if now <= core.Deadline+core.Timeout {
				return ErrDeadlineNotPassed
			}
		case StatusIdle, StatusFinalized:
			return ErrDeadlineNotPassed
		}

		done, err := e.rules.FinalizeTimeout(rec)
		if err != nil {
			return err
		}

		if !done {
			return ErrDeadlineNotPassed
		}

		core.Status = StatusFinalized
		finalized = true

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDeadlineNotPassed) {
			return out, false, nil
		}

		var zero R

		return zero, false, err
	}

	return out, finalized, nil
}

func (e *Engine[R]) Channel(id common.Hash) (R, error) {
	return e.repo.Get(id)
}

func (e *Engine[R]) IsFinalized(id common.Hash) (bool, error) {
	rec, err := e.repo.Get(id)
	if err != nil {
		return false, err
	}

	return rec.CoreInfo().Status == StatusFinalized, nil
}

func (e *Engine[R]) Outcome(id common.Hash, query []byte) (bool, error) {
	rec, err := e.repo.Get(id)
	if err != nil {
		return false, err
	}

	return e.rules.Outcome(rec, query)
}

func (e *Engine[R]) SettleFinalizedTime(id common.Hash) (uint64, bool, error) {
	rec, err := e.repo.Get(id)
	if err != nil {
		return 0, false, err
	}

	core := rec.CoreInfo()
	if core.Status != StatusSettle {
		return 0, false, nil
	}

	return core.Deadline, true, nil
}

func (e *Engine[R]) ActionDeadline(id common.Hash) (uint64, bool, error) {
	rec, err := e.repo.Get(id)
	if err != nil {
		return 0, false, err
	}

	core := rec.CoreInfo()

	switch core.Status {
	case StatusAction:
		return core.Deadline, true, nil
	case StatusSettle:
		return core.Deadline + core.Timeout, true, nil
	default:
		return 0, false, nil
	}
}
