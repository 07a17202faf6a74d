package score

import "fmt"

// AlignmentError is returned when the test and gold corpora cannot be compared
// position by position. Sentence is the 0-based index of the offending pair;
// Test and Gold hold the sentence (or token) counts seen on each side.
type AlignmentError struct {
	Sentence int
	Test     int
	Gold     int
	Reason   string
}

// Error returns a text description of the mismatch.
func (e *AlignmentError) Error() string {
	return fmt.Sprintf("alignment error at sentence %d: %s (test=%d, gold=%d)", e.Sentence, e.Reason, e.Test, e.Gold)
}

// NewTokenCountError reports sentences of different length.
func NewTokenCountError(sentence, test, gold int) *AlignmentError {
	return &AlignmentError{Sentence: sentence, Test: test, Gold: gold, Reason: "token counts differ"}
}

// NewSentenceCountError reports corpora of different length.
// Sentence is the index of the first sentence missing on one side.
func NewSentenceCountError(sentence, test, gold int) *AlignmentError {
	return &AlignmentError{Sentence: sentence, Test: test, Gold: gold, Reason: "sentence counts differ"}
}

// NewTokenIDError reports sentences whose tokens at the same position carry
// different ids. Test and Gold hold the sentence length.
func NewTokenIDError(sentence, length int, testID, goldID string) *AlignmentError {
	return &AlignmentError{
		Sentence: sentence,
		Test:     length,
		Gold:     length,
		Reason:   fmt.Sprintf("token ids differ: test '%s', gold '%s'", testID, goldID),
	}
}

// UnknownCategoryError is returned when a category is requested that has no scorer.
type UnknownCategoryError struct {
	Category Category
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("no scorer for category '%s'", e.Category)
}

func NewUnknownCategoryError(c Category) *UnknownCategoryError {
	return &UnknownCategoryError{Category: c}
}
