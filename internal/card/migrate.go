package card

// Migration upgrades records persisted by earlier releases. Each function
// is pure and idempotent: it only fills defaults for missing fields and
// never blanks populated ones, so applying it twice equals applying it once.

// MigrateWord fills defaults on a WordCard read from the store. All
// array-valued fields are non-nil afterwards.
func MigrateWord(w WordCard) WordCard {
	if w.Definitions == nil {
		w.Definitions = []Definition{}
	}
	if w.Collocations == nil {
		w.Collocations = []string{}
	}
	if w.Synonyms == nil {
		w.Synonyms = []string{}
	}
	if w.Antonyms == nil {
		w.Antonyms = []string{}
	}
	if w.WordFamily == nil {
		w.WordFamily = []WordFamilyEntry{}
	}
	if w.Mnemonics == nil {
		w.Mnemonics = []Mnemonic{}
	}
	return w
}

// MigrateDeck fills defaults on a Deck and lifts the legacy embedded-card
// membership form to ID references. Membership IDs are deduplicated
// preserving order, first occurrence wins. The embedded cards themselves
// are kept on the record; only the import path extracts them into the
// word store.
func MigrateDeck(d Deck) Deck {
	if d.WordIDs == nil {
		d.WordIDs = []string{}
	}
	if len(d.WordIDs) == 0 && len(d.Cards) > 0 {
		for _, c := range d.Cards {
			d.WordIDs = append(d.WordIDs, c.ID)
		}
	}
	d.WordIDs = dedupeStrings(d.WordIDs)
	for i, c := range d.Cards {
		d.Cards[i] = MigrateWord(c)
	}
	return d
}

// MigrateStory fills defaults on a Story read from the store.
func MigrateStory(s Story) Story {
	if s.Words == nil {
		s.Words = []string{}
	}
	return s
}

// dedupeStrings removes duplicates preserving order, first occurrence wins
func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
