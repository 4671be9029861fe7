package cards

// IsWinning reports whether the card wins against the drawn balls: any full
// row, any full column, either diagonal, all four corners, or the whole card.
// A nil card never wins.
func IsWinning(card *Card, drawn map[int]struct{}) bool {
	if card == nil {
		return false
	}
	return anyColumnComplete(card, drawn) ||
		anyRowComplete(card, drawn) ||
		anyDiagonalComplete(card, drawn) ||
		cornersComplete(card, drawn) ||
		fullCardComplete(card, drawn)
}

// satisfied is true for the free marker or a cell whose number was drawn.
func satisfied(cell string, drawn map[int]struct{}) bool {
	if cell == FreeMarker {
		return true
	}
	n, ok := Number(cell)
	if !ok {
		return false
	}
	_, hit := drawn[n]
	return hit
}

func anyColumnComplete(card *Card, drawn map[int]struct{}) bool {
	for col := 0; col < 5; col++ {
		complete := true
		for row := 0; row < 5; row++ {
			if !satisfied(card[col][row], drawn) {
				complete = false
				break
			}
		}
		if complete {
			return true
		}
	}
	return false
}

func anyRowComplete(card *Card, drawn map[int]struct{}) bool {
	for row := 0; row < 5; row++ {
		complete := true
		for col := 0; col < 5; col++ {
			if !satisfied(card[col][row], drawn) {
				complete = false
				break
			}
		}
		if complete {
			return true
		}
	}
	return false
}

func anyDiagonalComplete(card *Card, drawn map[int]struct{}) bool {
	main, anti := true, true
	for i := 0; i < 5; i++ {
		if !satisfied(card[i][i], drawn) {
			main = false
		}
		if !satisfied(card[i][4-i], drawn) {
			anti = false
		}
	}
	return main || anti
}

func cornersComplete(card *Card, drawn map[int]struct{}) bool {
	return satisfied(card[0][0], drawn) &&
		satisfied(card[0][4], drawn) &&
		satisfied(card[4][0], drawn) &&
		satisfied(card[4][4], drawn)
}

func fullCardComplete(card *Card, drawn map[int]struct{}) bool {
	for col := 0; col < 5; col++ {
		for row := 0; row < 5; row++ {
			if !satisfied(card[col][row], drawn) {
				return false
			}
		}
	}
	return true
}
