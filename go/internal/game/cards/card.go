package cards

import "strconv"

// FreeMarker is the literal the client expects in the card's center cell.
const FreeMarker = "FREE"

// Letters prefix each column's numbers on the wire ("B7", "N34", ...).
var Letters = [5]string{"B", "I", "N", "G", "O"}

// Card is a 5x5 bingo card stored column-major (Card[col][row]) to match the
// client wire format: an array of five column arrays. Cell (2,2) is the free
// marker; every other cell is "<letter><number>" with the number taken from
// the column's 15-value range.
type Card [5][5]string

// Number extracts the numeric value of a cell. The second return is false for
// the free marker or a malformed cell.
func Number(cell string) (int, bool) {
	if len(cell) < 2 || cell == FreeMarker {
		return 0, false
	}
	n, err := strconv.Atoi(cell[1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ColumnRange returns the inclusive number range assigned to column col.
func ColumnRange(col int) (low, high int) {
	low = col*15 + 1
	return low, low + 14
}
