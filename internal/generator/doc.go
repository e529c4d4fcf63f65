// Package generator drives batch flashcard and story generation. A batch
// checkpoints after every completed word so an interrupted run can be
// resumed by repeating it with the same word list; already-stored words
// are reused locally instead of being regenerated.
package generator
