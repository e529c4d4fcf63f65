package card

import "time"

// Phonetics holds pronunciation transcriptions for a word
type Phonetics struct {
	IPA        string `json:"ipa"`
	Simplified string `json:"simplified"`
}

// PartOfSpeech classifies a word grammatically
type PartOfSpeech struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Definition is one sense of a word with translation and example usage
type Definition struct {
	Definition         string `json:"definition"`
	Translation        string `json:"translation"`
	Example            string `json:"example"`
	ExampleTranslation string `json:"exampleTranslation"`
}

// WordFamilyEntry is a related word sharing the same root
type WordFamilyEntry struct {
	Word        string `json:"word"`
	Type        string `json:"type"`
	Translation string `json:"translation"`
}

// Mnemonic is a memory aid for a word. Type describes the technique
// (association, story, sound-alike, ...).
type Mnemonic struct {
	Type        string `json:"type"`
	Text        string `json:"text"`
	Translation string `json:"translation"`
}

// WordCard is a single vocabulary entry. The ID is assigned at creation
// and never changes; regeneration replaces every other field except Audio.
type WordCard struct {
	ID           string            `json:"id"`
	Word         string            `json:"word"`
	TargetLang   string            `json:"targetLang"`
	NativeLang   string            `json:"nativeLang"`
	Phonetics    Phonetics         `json:"phonetics"`
	PartOfSpeech PartOfSpeech      `json:"partOfSpeech"`
	Definitions  []Definition      `json:"definitions"`
	Collocations []string          `json:"collocations"`
	Synonyms     []string          `json:"synonyms"`
	Antonyms     []string          `json:"antonyms"`
	WordFamily   []WordFamilyEntry `json:"wordFamily"`
	Mnemonics    []Mnemonic        `json:"mnemonics"`
	// Audio holds base64-encoded single-channel 24kHz PCM, empty if
	// speech generation failed or was skipped.
	Audio     string    `json:"audio,omitempty"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Deck is a named, ordered collection of words. Membership is a list of
// WordCard IDs referencing the shared word store. Cards is the legacy
// embedded-card form; it survives only until migration or import lifts it
// into WordIDs.
type Deck struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	CreatedAt  time.Time  `json:"createdAt"`
	TargetLang string     `json:"targetLang"`
	NativeLang string     `json:"nativeLang"`
	WordIDs    []string   `json:"wordIds"`
	Cards      []WordCard `json:"cards,omitempty"`
}

// Story is a generated narrative tied to a deck's vocabulary. Words is a
// frozen snapshot of the target words incorporated at generation time; it
// does not track later deck changes.
type Story struct {
	ID         string    `json:"id"`
	DeckID     string    `json:"deckId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Words      []string  `json:"words"`
	CreatedAt  time.Time `json:"createdAt"`
	TargetLang string    `json:"targetLang"`
	NativeLang string    `json:"nativeLang"`
}
