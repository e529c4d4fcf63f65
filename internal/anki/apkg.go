package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// APKGGenerator creates Anki package files (.apkg)
type APKGGenerator struct {
	deckName     string
	deckID       int64
	modelID      int64
	cards        []Card
	mediaFiles   map[string]int // maps media filename to media number
	mediaCounter int
}

// NewAPKGGenerator creates a new APKG generator
func NewAPKGGenerator(deckName string) *APKGGenerator {
	// Timestamp-based IDs keep repeated exports distinct
	now := time.Now().UnixMilli()
	return &APKGGenerator{
		deckName:   deckName,
		deckID:     now,
		modelID:    now + 1,
		mediaFiles: make(map[string]int),
	}
}

// AddCard adds a card to the generator
func (g *APKGGenerator) AddCard(c Card) {
	g.cards = append(g.cards, c)
}

// GenerateAPKG creates an .apkg file
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	tempDir, err := os.MkdirTemp("", "anki_export_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// Media first, the database references the media numbers
	if err := g.writeMediaFiles(tempDir); err != nil {
		return fmt.Errorf("failed to write media files: %w", err)
	}

	if err := g.createMediaMapping(tempDir); err != nil {
		return fmt.Errorf("failed to create media mapping: %w", err)
	}

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := g.createDatabase(dbPath); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if err := g.createZipPackage(tempDir, outputPath); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}

	return nil
}

// createDatabase creates the Anki SQLite database
func (g *APKGGenerator) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := g.createTables(db); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if err := g.insertCollection(db); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	if err := g.insertNotesAndCards(db); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}

	return nil
}

// createTables creates the required Anki database tables
func (g *APKGGenerator) createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE col (
			id integer PRIMARY KEY,
			crt integer NOT NULL,
			mod integer NOT NULL,
			scm integer NOT NULL,
			ver integer NOT NULL,
			dty integer NOT NULL,
			usn integer NOT NULL,
			ls integer NOT NULL,
			conf text NOT NULL,
			models text NOT NULL,
			decks text NOT NULL,
			dconf text NOT NULL,
			tags text NOT NULL
		)`,
		`CREATE TABLE notes (
			id integer PRIMARY KEY,
			guid text NOT NULL,
			mid integer NOT NULL,
			mod integer NOT NULL,
			usn integer NOT NULL,
			tags text NOT NULL,
			flds text NOT NULL,
			sfld text NOT NULL,
			csum integer NOT NULL,
			flags integer NOT NULL,
			data text NOT NULL
		)`,
		`CREATE TABLE cards (
			id integer PRIMARY KEY,
			nid integer NOT NULL,
			did integer NOT NULL,
			ord integer NOT NULL,
			mod integer NOT NULL,
			usn integer NOT NULL,
			type integer NOT NULL,
			queue integer NOT NULL,
			due integer NOT NULL,
			ivl integer NOT NULL,
			factor integer NOT NULL,
			reps integer NOT NULL,
			lapses integer NOT NULL,
			left integer NOT NULL,
			odue integer NOT NULL,
			odid integer NOT NULL,
			flags integer NOT NULL,
			data text NOT NULL
		)`,
		`CREATE TABLE revlog (
			id integer PRIMARY KEY,
			cid integer NOT NULL,
			usn integer NOT NULL,
			ease integer NOT NULL,
			ivl integer NOT NULL,
			lastIvl integer NOT NULL,
			factor integer NOT NULL,
			time integer NOT NULL,
			type integer NOT NULL
		)`,
		`CREATE TABLE graves (
			usn integer NOT NULL,
			oid integer NOT NULL,
			type integer NOT NULL
		)`,
		`CREATE INDEX ix_notes_csum ON notes (csum)`,
		`CREATE INDEX ix_notes_usn ON notes (usn)`,
		`CREATE INDEX ix_cards_usn ON cards (usn)`,
		`CREATE INDEX ix_cards_nid ON cards (nid)`,
		`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
		`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
		`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// deckEntry builds one deck description for the decks JSON blob
func deckEntry(id int64, name, desc string, now int64) map[string]interface{} {
	return map[string]interface{}{
		"id":        id,
		"name":      name,
		"desc":      desc,
		"mod":       now,
		"usn":       0,
		"dyn":       0,
		"conf":      1,
		"collapsed": false,
		"newToday":  []int{0, 0},
		"revToday":  []int{0, 0},
		"lrnToday":  []int{0, 0},
		"timeToday": []int{0, 0},
	}
}

// insertCollection inserts the collection metadata. The JSON blobs carry
// only the keys Anki needs to import the package; everything else gets
// normalized to defaults on import.
func (g *APKGGenerator) insertCollection(db *sql.DB) error {
	now := time.Now().Unix()

	decksJSON, _ := json.Marshal(map[string]interface{}{
		"1":                         deckEntry(1, "Default", "", now),
		fmt.Sprintf("%d", g.deckID): deckEntry(g.deckID, g.deckName, "Vocabulary cards exported by LexiRecall", now),
	})

	modelsJSON, _ := json.Marshal(map[string]interface{}{
		fmt.Sprintf("%d", g.modelID): g.noteTypeConfig(now),
	})

	confJSON, _ := json.Marshal(map[string]interface{}{
		"nextPos":      1,
		"activeDecks":  []int64{1},
		"curDeck":      1,
		"curModel":     fmt.Sprintf("%d", g.modelID),
		"sortType":     "noteFld",
		"newSpread":    0,
		"collapseTime": 1200,
		"timeLim":      0,
		"schedVer":     1,
	})

	dconfJSON, _ := json.Marshal(map[string]interface{}{
		"1": map[string]interface{}{
			"id":       1,
			"name":     "Default",
			"dyn":      0,
			"usn":      0,
			"mod":      now,
			"new":      map[string]interface{}{"delays": []int{1, 10}, "ints": []int{1, 4, 7}, "initialFactor": 2500, "perDay": 20, "order": 1},
			"lapse":    map[string]interface{}{"delays": []int{10}, "mult": 0, "minInt": 1, "leechFails": 8, "leechAction": 0},
			"rev":      map[string]interface{}{"perDay": 100, "ease4": 1.3, "fuzz": 0.05, "maxIvl": 36500, "ivlFct": 1},
			"timer":    0,
			"maxTaken": 60,
			"autoplay": true,
			"replayq":  true,
		},
	})

	query := `INSERT INTO col VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.Exec(query,
		1,        // id
		now,      // crt
		now*1000, // mod
		now*1000, // scm
		11,       // ver (schema version)
		0,        // dty
		0,        // usn
		0,        // ls
		string(confJSON),
		string(modelsJSON),
		string(decksJSON),
		string(dconfJSON),
		"{}", // tags
	)
	return err
}

// noteTypeConfig describes the vocabulary note type: six fields, a
// Forward (translation to word) and a Reverse (word to translation)
// template per note.
func (g *APKGGenerator) noteTypeConfig(now int64) map[string]interface{} {
	fieldSpecs := []struct {
		name string
		size int
	}{
		{"Translation", 20},
		{"Word", 20},
		{"Phonetic", 18},
		{"Example", 18},
		{"Audio", 20},
		{"Notes", 16},
	}

	flds := make([]map[string]interface{}, 0, len(fieldSpecs))
	for ord, f := range fieldSpecs {
		flds = append(flds, map[string]interface{}{
			"name":   f.name,
			"ord":    ord,
			"sticky": false,
			"rtl":    false,
			"font":   "Arial",
			"size":   f.size,
			"media":  []string{},
		})
	}

	return map[string]interface{}{
		"id":        g.modelID,
		"name":      "Vocabulary from LexiRecall (Basic + Reverse)",
		"type":      0,
		"mod":       now,
		"usn":       -1,
		"sortf":     0,
		"did":       g.deckID,
		"req":       [][]interface{}{{0, "all", []int{0}}, {1, "all", []int{1}}},
		"tags":      []string{},
		"latexPre":  `\documentclass[12pt]{article}` + "\n" + `\begin{document}`,
		"latexPost": `\end{document}`,
		"flds":      flds,
		"tmpls": []map[string]interface{}{
			{"name": "Forward", "ord": 0, "qfmt": frontTemplate("Translation"), "afmt": backTemplate("Word"), "did": nil, "bqfmt": "", "bafmt": ""},
			{"name": "Reverse", "ord": 1, "qfmt": frontTemplate("Word"), "afmt": backTemplate("Translation"), "did": nil, "bqfmt": "", "bafmt": ""},
		},
		"css": cardCSS,
	}
}

// frontTemplate renders the question side showing a single field
func frontTemplate(field string) string {
	return fmt.Sprintf(`<div class="front">
<div class="%s">{{%s}}</div>
</div>`, strings.ToLower(field), field)
}

// backTemplate renders the answer side leading with the given field,
// followed by the optional pronunciation and usage sections.
func backTemplate(field string) string {
	return fmt.Sprintf(`{{FrontSide}}

<hr id="answer">

<div class="back">
<div class="%s">{{%s}}</div>
{{#Phonetic}}
<div class="phonetic">{{Phonetic}}</div>
{{/Phonetic}}
{{#Audio}}
<div class="audio">{{Audio}}</div>
{{/Audio}}
{{#Example}}
<div class="example">{{Example}}</div>
{{/Example}}
{{#Notes}}
<div class="notes">{{Notes}}</div>
{{/Notes}}
</div>`, strings.ToLower(field), field)
}

const cardCSS = `.card {
  font-family: Arial, sans-serif;
  font-size: 20px;
  text-align: center;
  color: #333;
  background-color: white;
}

.front, .back {
  padding: 20px;
}

.translation {
  font-size: 28px;
  font-weight: bold;
  color: #2c3e50;
  margin: 20px 0;
}

.word {
  font-size: 32px;
  font-weight: bold;
  color: #c0392b;
  margin: 20px 0;
}

.phonetic {
  font-size: 18px;
  color: #7f8c8d;
  margin: 10px 0;
}

.example {
  font-size: 18px;
  color: #34495e;
  margin: 15px 0;
  font-style: italic;
}

.audio {
  margin: 15px 0;
}

.notes {
  font-size: 16px;
  color: #7f8c8d;
  margin-top: 20px;
  font-style: italic;
}

hr#answer {
  margin: 30px 0;
  border: 0;
  border-top: 1px solid #ecf0f1;
}`

// insertNotesAndCards inserts all notes and cards into the database
func (g *APKGGenerator) insertNotesAndCards(db *sql.DB) error {
	now := time.Now()

	for i, c := range g.cards {
		// Unique IDs, leaving space for 2 cards per note
		noteID := now.UnixMilli() + int64(i*3)
		cardID1 := noteID + 1
		cardID2 := noteID + 2

		translation := c.Translation
		if translation == "" {
			translation = "Translation needed"
		}

		audioField := ""
		if _, ok := g.mediaFiles[c.AudioName]; ok {
			audioField = fmt.Sprintf("[sound:%s]", c.AudioName)
		}

		// Fields joined with the Anki field separator (ASCII 31)
		fields := strings.Join([]string{
			translation,
			c.Word,
			c.Phonetic,
			c.Example,
			audioField,
			c.Notes,
		}, "\x1f")

		guid := fmt.Sprintf("lr_%d_%s", now.Unix(), c.Word)

		noteQuery := `INSERT INTO notes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := db.Exec(noteQuery,
			noteID,     // id
			guid,       // guid
			g.modelID,  // mid
			now.Unix(), // mod
			-1,         // usn
			"",         // tags
			fields,     // flds
			c.Word,     // sfld (sort field)
			0,          // csum
			0,          // flags
			"",         // data
		)
		if err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}

		cardQuery := `INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err = db.Exec(cardQuery,
			cardID1,    // id
			noteID,     // nid
			g.deckID,   // did
			0,          // ord (template 0)
			now.Unix(), // mod
			-1,         // usn
			0,          // type (0=new)
			0,          // queue (0=new)
			noteID,     // due (for new cards, this is position)
			0,          // ivl
			0,          // factor
			0,          // reps
			0,          // lapses
			0,          // left
			0,          // odue
			0,          // odid
			0,          // flags
			"",         // data
		)
		if err != nil {
			return fmt.Errorf("failed to insert forward card: %w", err)
		}

		_, err = db.Exec(cardQuery,
			cardID2,    // id
			noteID,     // nid
			g.deckID,   // did
			1,          // ord (template 1)
			now.Unix(), // mod
			-1,         // usn
			0,          // type (0=new)
			0,          // queue (0=new)
			noteID+1,   // due (unique position)
			0,          // ivl
			0,          // factor
			0,          // reps
			0,          // lapses
			0,          // left
			0,          // odue
			0,          // odid
			0,          // flags
			"",         // data
		)
		if err != nil {
			return fmt.Errorf("failed to insert reverse card: %w", err)
		}
	}

	return nil
}

// writeMediaFiles writes embedded audio payloads and assigns them numbers
func (g *APKGGenerator) writeMediaFiles(tempDir string) error {
	for _, c := range g.cards {
		if len(c.Audio) == 0 || c.AudioName == "" {
			continue
		}
		if _, exists := g.mediaFiles[c.AudioName]; exists {
			continue
		}

		targetPath := filepath.Join(tempDir, fmt.Sprintf("%d", g.mediaCounter))
		if err := os.WriteFile(targetPath, c.Audio, 0644); err != nil {
			return fmt.Errorf("failed to write audio for %s: %w", c.Word, err)
		}
		g.mediaFiles[c.AudioName] = g.mediaCounter
		g.mediaCounter++
	}

	return nil
}

// createMediaMapping creates the media mapping JSON file
func (g *APKGGenerator) createMediaMapping(tempDir string) error {
	// Anki wants the reverse mapping (number -> filename)
	mapping := make(map[string]string)
	for filename, num := range g.mediaFiles {
		mapping[fmt.Sprintf("%d", num)] = filename
	}

	data, err := json.Marshal(mapping)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(tempDir, "media"), data, 0644)
}

// createZipPackage creates the final .apkg zip file
func (g *APKGGenerator) createZipPackage(tempDir, outputPath string) error {
	zipFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	archive := zip.NewWriter(zipFile)
	defer archive.Close()

	return filepath.Walk(tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(tempDir, path)
		if err != nil {
			return err
		}

		writer, err := archive.Create(relPath)
		if err != nil {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(writer, file)
		return err
	})
}
