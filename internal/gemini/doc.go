// Package gemini implements the generation client on top of the Gemini
// API. It exposes four independent operations: word-list generation for a
// topic prompt, structured flashcard data for a single word, speech
// synthesis (24kHz mono PCM), and story generation from deck vocabulary.
// Each operation is a single attempt; resumption via the generation
// checkpoint is the retry mechanism.
package gemini
