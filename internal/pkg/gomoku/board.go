package gomoku

const (
	Dimension = 15
	Cells     = Dimension * Dimension

	WinRun = 5

	singleHeader = 2
	multiHeader  = 3

	SingleBoardLen = singleHeader + Cells
	MultiBoardLen  = multiHeader + Cells
)

type Board struct {
	raw    []byte
	header int
}

func WrapBoard(raw []byte, header int) Board {
	return Board{
		raw:    raw,
		header: header,
	}
}

func (b Board) Winner() byte {
	return b.raw[0]
}

func (b Board) SetWinner(winner byte) {
	b.raw[0] = winner
}

func (b Board) Turn() byte {
	return b.raw[1]
}

func (b Board) SetTurn(turn byte) {
	b.raw[1] = turn
}

func (b Board) InBounds(x, y int) bool {
	return x >= 0 && x < Dimension && y >= 0 && y < Dimension
}

func (b Board) Stone(x, y int) byte {
	return b.raw[b.header+Dimension*x+y]
}

func (b Board) SetStone(x, y int, color byte) {
	b.raw[b.header+Dimension*x+y] = color
}

func (b Board) StoneCount() uint16 {
	var count uint16

	for i := b.header; i < len(b.raw); i++ {
		if b.raw[i] != 0 {
			count++
		}
	}

	return count
}

func (b Board) runLength(x, y, dx, dy int) int {
	color := b.Stone(x, y)
	count := 1

	for i := 1; i <= WinRun; i++ {
		nx := x + dx*i
		ny := y + dy*i

		if !b.InBounds(nx, ny) || b.Stone(nx, ny) != color {
			break
		}

		count++
	}

	return count
}

func (b Board) HasWinningRun(x, y int) bool {
	directions := [][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

	for _, direction := range directions {
		forward := b.runLength(x, y, direction[0], direction[1])
		backward := b.runLength(x, y, -direction[0], -direction[1])

		if forward+backward-1 >= WinRun {
			return true
		}
	}

	return false
}
