package gomoku_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	gomoku "github.com/celer-network/capps-go/internal/pkg/gomoku"
)

const (
	singleHeader = gomoku.SingleBoardLen - gomoku.Cells
	multiHeader  = gomoku.MultiBoardLen - gomoku.Cells
)

func newSingleBoard(turn byte) ([]byte, gomoku.Board) {
	raw := make([]byte, gomoku.SingleBoardLen)

	board := gomoku.WrapBoard(raw, singleHeader)
	board.SetTurn(turn)

	return raw, board
}

func newMultiBoard(turn, blackID byte) ([]byte, gomoku.Board) {
	raw := make([]byte, gomoku.MultiBoardLen)
	raw[2] = blackID

	board := gomoku.WrapBoard(raw, multiHeader)
	board.SetTurn(turn)

	return raw, board
}

func placeStones(board gomoku.Board, color byte, stones [][2]int) {
	for _, stone := range stones {
		board.SetStone(stone[0], stone[1], color)
	}
}

func TestBoardAccessors(t *testing.T) {
	t.Parallel()

	raw, board := newSingleBoard(2)

	board.SetWinner(1)
	board.SetStone(7, 7, 1)

	assert.Equal(t, byte(1), board.Winner())
	assert.Equal(t, byte(2), board.Turn())
	assert.Equal(t, byte(1), board.Stone(7, 7))
	assert.Equal(t, byte(1), raw[singleHeader+7*gomoku.Dimension+7])
	assert.Equal(t, uint16(1), board.StoneCount())
}

func TestStoneCountIgnoresHeader(t *testing.T) {
	t.Parallel()

	raw, board := newMultiBoard(2, 1)
	raw[0] = 1

	assert.Equal(t, uint16(0), board.StoneCount())

	board.SetStone(0, 0, 1)
	board.SetStone(14, 14, 2)

	assert.Equal(t, uint16(2), board.StoneCount())
}

func TestInBounds(t *testing.T) {
	t.Parallel()

	_, board := newSingleBoard(1)

	assert.True(t, board.InBounds(0, 0))
	assert.True(t, board.InBounds(14, 14))
	assert.False(t, board.InBounds(15, 0))
	assert.False(t, board.InBounds(0, 15))
	assert.False(t, board.InBounds(-1, 0))
	assert.False(t, board.InBounds(0, -1))
}

func TestHasWinningRun(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		stones [][2]int
		probe  [2]int
		want   bool
	}{
		{
			name:   "horizontal five",
			stones: [][2]int{{7, 3}, {7, 4}, {7, 5}, {7, 6}, {7, 7}},
			probe:  [2]int{7, 5},
			want:   true,
		},
		{
			name:   "vertical five",
			stones: [][2]int{{3, 7}, {4, 7}, {5, 7}, {6, 7}, {7, 7}},
			probe:  [2]int{5, 7},
			want:   true,
		},
		{
			name:   "diagonal five",
			stones: [][2]int{{3, 3}, {4, 4}, {5, 5}, {6, 6}, {7, 7}},
			probe:  [2]int{7, 7},
			want:   true,
		},
		{
			name:   "anti-diagonal five",
			stones: [][2]int{{3, 11}, {4, 10}, {5, 9}, {6, 8}, {7, 7}},
			probe:  [2]int{5, 9},
			want:   true,
		},
		{
			name:   "corner five",
			stones: [][2]int{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}},
			probe:  [2]int{0, 0},
			want:   true,
		},
		{
			name:   "six in a row",
			stones: [][2]int{{7, 2}, {7, 3}, {7, 4}, {7, 5}, {7, 6}, {7, 7}},
			probe:  [2]int{7, 4},
			want:   true,
		},
		{
			name:   "only four",
			stones: [][2]int{{7, 3}, {7, 4}, {7, 5}, {7, 6}},
			probe:  [2]int{7, 4},
			want:   false,
		},
		{
			name:   "broken run",
			stones: [][2]int{{7, 3}, {7, 4}, {7, 6}, {7, 7}, {7, 8}},
			probe:  [2]int{7, 6},
			want:   false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			_, board := newSingleBoard(1)
			placeStones(board, 1, c.stones)

			assert.Equal(t, c.want, board.HasWinningRun(c.probe[0], c.probe[1]))
		})
	}
}

func TestHasWinningRunStopsAtOpponentStone(t *testing.T) {
	t.Parallel()

	_, board := newSingleBoard(1)

	placeStones(board, 1, [][2]int{{7, 3}, {7, 4}, {7, 6}, {7, 7}})
	board.SetStone(7, 5, 2)

	assert.False(t, board.HasWinningRun(7, 4))
	assert.False(t, board.HasWinningRun(7, 6))
}

func BenchmarkHasWinningRun(b *testing.B) {
	_, board := newSingleBoard(1)

	placeStones(board, 1, [][2]int{{3, 3}, {4, 4}, {5, 5}, {6, 6}, {7, 7}})
	placeStones(board, 2, [][2]int{{3, 4}, {4, 5}, {5, 6}, {6, 7}})

	for b.Loop() {
		if !board.HasWinningRun(7, 7) {
			b.FailNow()
		}
	}
}
