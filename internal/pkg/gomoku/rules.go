package gomoku

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"github.com/celer-network/capps-go/internal/pkg/channel"
)

var ErrInvalidStateKey = errors.New("invalid state key")

const (
	TurnColorKey   uint8 = 0
	WinnerColorKey uint8 = 1
	FullStateKey   uint8 = 2
)

const moveLen = 2

type Rules struct {
	boardLen    int
	header      int
	playerOf    func(rec *Record, color byte) (common.Address, error)
	checkHeader func(payload []byte) error
}

func SingleRules() Rules {
	return Rules{
		boardLen:    SingleBoardLen,
		header:      singleHeader,
		playerOf:    singlePlayer,
		checkHeader: nil,
	}
}

func MultiRules() Rules {
	return Rules{
		boardLen:    MultiBoardLen,
		header:      multiHeader,
		playerOf:    multiPlayer,
		checkHeader: checkBlackID,
	}
}

func singlePlayer(rec *Record, color byte) (common.Address, error) {
	switch color {
	case 1:
		return rec.Players[0], nil
	case 2:
		return rec.Players[1], nil
	default:
		return common.Address{}, channel.ErrNotYourTurn
	}
}

func multiPlayer(rec *Record, color byte) (common.Address, error) {
	blackID := rec.Board[2]
	if blackID != 1 && blackID != 2 {
		return common.Address{}, channel.ErrInvalidBlackID
	}

	switch color {
	case 1:
		return rec.Players[blackID-1], nil
	case 2:
		return rec.Players[2-blackID], nil
	default:
		return common.Address{}, channel.ErrNotYourTurn
	}
}

func checkBlackID(payload []byte) error {
	if payload[2] != 1 && payload[2] != 2 {
		return channel.ErrInvalidBlackID
	}

	return nil
}

func (r Rules) ApplySettle(rec *Record, payload []byte) error {
	if len(payload) != r.boardLen {
		return channel.ErrInvalidPayloadLength
	}

	if r.checkHeader != nil {
		err := r.checkHeader(payload)
		if err != nil {
			return err
		}
	}

	board := WrapBoard(payload, r.header)
	count := board.StoneCount()

	winner := board.Winner()
	if winner == 0 && count < uint16(rec.MinOffchainStones) {
		return channel.ErrInsufficientOffchainMoves
	}

	rec.Board = append([]byte(nil), payload...)
	rec.StoneCount = count

	if winner != 0 {
		return r.winGame(rec, winner)
	}

	return nil
}

func (r Rules) ApplyAction(rec *Record, caller common.Address, action []byte) error {
	if len(rec.Board) == 0 {
		return channel.ErrEmptyBoard
	}

	board := WrapBoard(rec.Board, r.header)

	expected, err := r.playerOf(rec, board.Turn())
	if err != nil {
		return err
	}

	if caller != expected {
		return channel.ErrNotYourTurn
	}

	if len(action) != moveLen {
		return channel.ErrInvalidPayloadLength
	}

	x := int(action[0])
	y := int(action[1])

	if !board.InBounds(x, y) {
		return channel.ErrOutOfBoundary
	}

	if board.Stone(x, y) != 0 {
		return channel.ErrSlotOccupied
	}

	turn := board.Turn()
	board.SetStone(x, y, turn)

	rec.StoneCount++
	rec.OnchainStoneCount++

	if board.HasWinningRun(x, y) {
		return r.winGame(rec, turn)
	}

	if rec.StoneCount == Cells || rec.OnchainStoneCount > uint16(rec.MaxOnchainStones) {
		r.drawGame(rec)

		return nil
	}

	board.SetTurn(3 - turn)

	return nil
}

func (r Rules) FinalizeTimeout(rec *Record) (bool, error) {
	if len(rec.Board) == 0 {
		return false, channel.ErrEmptyBoard
	}

	var winner byte

	switch WrapBoard(rec.Board, r.header).Turn() {
	case 1:
		winner = 2
	case 2:
		winner = 1
	default:
		return false, nil
	}

	err := r.winGame(rec, winner)
	if err != nil {
		return false, err
	}

	return true, nil
}

func (r Rules) Outcome(rec *Record, query []byte) (bool, error) {
	if len(rec.Board) == 0 {
		return false, channel.ErrEmptyBoard
	}

	if len(query) != 1 {
		return false, channel.ErrInvalidPayloadLength
	}

	if WrapBoard(rec.Board, r.header).Winner() != query[0] {
		return false, channel.ErrFalseOutcome
	}

	return true, nil
}

func (r Rules) StateValue(rec *Record, key uint8) ([]byte, error) {
	if len(rec.Board) == 0 {
		return nil, channel.ErrEmptyBoard
	}

	board := WrapBoard(rec.Board, r.header)

	switch key {
	case TurnColorKey:
		return []byte{board.Turn()}, nil
	case WinnerColorKey:
		return []byte{board.Winner()}, nil
	case FullStateKey:
		return append([]byte(nil), rec.Board...), nil
	default:
		return nil, ErrInvalidStateKey
	}
}

func (r Rules) winGame(rec *Record, winner byte) error {
	if winner > 2 {
		return channel.ErrInvalidWinner
	}

	board := WrapBoard(rec.Board, r.header)
	board.SetWinner(winner)

	if winner != 0 {
		board.SetTurn(0)
		rec.Status = channel.StatusFinalized
	}

	return nil
}

func (r Rules) drawGame(rec *Record) {
	board := WrapBoard(rec.Board, r.header)
	board.SetTurn(0)

	rec.Status = channel.StatusFinalized
}
