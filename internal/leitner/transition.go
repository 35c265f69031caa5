package leitner

// NextBox returns the box a card moves to after an answer.
//
// A correct answer promotes the card one box, or into LearnedBox once it is
// at MaxActiveBox or above. An incorrect answer always sends the card back
// to box 1, whatever box it was in — there is no partial credit on failure.
func NextBox(currentBox int, correct bool) int {
	if correct {
		if currentBox >= MaxActiveBox {
			return LearnedBox
		}
		return currentBox + 1
	}
	return 1
}
