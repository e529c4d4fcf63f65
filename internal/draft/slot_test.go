package draft

import (
	"testing"
	"time"

	"codeberg.org/snonux/lexirecall/internal/storage"
)

type deckDraft struct {
	Title string   `json:"title"`
	Words []string `json:"words"`
}

func newTestSlot(backend *storage.MemoryBackend) *Slot[deckDraft] {
	// Zero debounce makes writes synchronous for deterministic tests.
	return NewSlotWithDebounce[deckDraft](backend, storage.KeyDeckDraft, 0)
}

func TestSlot_SaveAndLoad(t *testing.T) {
	backend := storage.NewMemoryBackend()
	slot := newTestSlot(backend)

	slot.Save([]string{"d1"}, deckDraft{Title: "Basics", Words: []string{"ябълка"}})

	state, ok := slot.Load([]string{"d1"})
	if !ok {
		t.Fatal("Expected draft to be restored")
	}
	if state.Title != "Basics" || len(state.Words) != 1 {
		t.Errorf("Unexpected draft state: %+v", state)
	}
}

func TestSlot_IdentityMismatch(t *testing.T) {
	backend := storage.NewMemoryBackend()
	slot := newTestSlot(backend)

	slot.Save([]string{"d1"}, deckDraft{Title: "Basics"})

	if _, ok := slot.Load([]string{"d2"}); ok {
		t.Error("Draft for one deck must not restore into another")
	}
}

func TestSlot_IdentityOrderInsensitive(t *testing.T) {
	backend := storage.NewMemoryBackend()
	slot := newTestSlot(backend)

	slot.Save([]string{"ябълка", "котка"}, deckDraft{Title: "Words"})

	if _, ok := slot.Load([]string{"котка", "ябълка"}); !ok {
		t.Error("Identity comparison should ignore order")
	}
}

func TestSlot_LoadEmpty(t *testing.T) {
	slot := newTestSlot(storage.NewMemoryBackend())

	if _, ok := slot.Load([]string{"d1"}); ok {
		t.Error("Expected no draft on a fresh backend")
	}
}

func TestSlot_CorruptDraft(t *testing.T) {
	backend := storage.NewMemoryBackend()
	if err := backend.Set(storage.KeyDeckDraft, []byte("{broken")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	slot := newTestSlot(backend)

	if _, ok := slot.Load([]string{"d1"}); ok {
		t.Error("Corrupt draft should be reported as absent")
	}
}

func TestSlot_Clear(t *testing.T) {
	backend := storage.NewMemoryBackend()
	slot := newTestSlot(backend)

	slot.Save([]string{"d1"}, deckDraft{Title: "Basics"})
	slot.Clear()

	if _, ok := slot.Load([]string{"d1"}); ok {
		t.Error("Expected no draft after Clear")
	}
	if backend.Len() != 0 {
		t.Errorf("Expected empty backend after Clear, got %d keys", backend.Len())
	}
}

func TestSlot_DebouncedWrite(t *testing.T) {
	backend := storage.NewMemoryBackend()
	slot := NewSlotWithDebounce[deckDraft](backend, storage.KeyDeckDraft, 20*time.Millisecond)

	slot.Save([]string{"d1"}, deckDraft{Title: "v1"})
	slot.Save([]string{"d1"}, deckDraft{Title: "v2"})

	if backend.Len() != 0 {
		t.Error("Draft should not be written before the debounce interval")
	}

	deadline := time.Now().Add(time.Second)
	for backend.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	state, ok := slot.Load([]string{"d1"})
	if !ok {
		t.Fatal("Expected draft after debounce interval")
	}
	if state.Title != "v2" {
		t.Errorf("Expected latest draft to win, got %q", state.Title)
	}
}

func TestSlot_FlushWritesImmediately(t *testing.T) {
	backend := storage.NewMemoryBackend()
	slot := NewSlotWithDebounce[deckDraft](backend, storage.KeyDeckDraft, time.Hour)

	slot.Save([]string{"d1"}, deckDraft{Title: "Basics"})
	slot.Flush()

	if _, ok := slot.Load([]string{"d1"}); !ok {
		t.Error("Flush should persist the pending draft")
	}
}

func TestSlot_IndependentKeys(t *testing.T) {
	backend := storage.NewMemoryBackend()
	deckSlot := NewSlotWithDebounce[deckDraft](backend, storage.KeyDeckDraft, 0)
	wordsSlot := NewSlotWithDebounce[[]string](backend, storage.KeyWordsDraft, 0)

	deckSlot.Save([]string{"d1"}, deckDraft{Title: "Basics"})
	wordsSlot.Save([]string{"batch"}, []string{"ябълка"})

	if _, ok := deckSlot.Load([]string{"d1"}); !ok {
		t.Error("Deck draft missing")
	}
	if words, ok := wordsSlot.Load([]string{"batch"}); !ok || len(words) != 1 {
		t.Error("Words draft missing or wrong")
	}

	deckSlot.Clear()
	if _, ok := wordsSlot.Load([]string{"batch"}); !ok {
		t.Error("Clearing one slot must not affect another")
	}
}
