package gemini

import "google.golang.org/genai"

// flashcardSchema constrains flashcard responses so that every structural
// field of a WordCard comes back populated.
func flashcardSchema() *genai.Schema {
	stringArray := &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"phonetics": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"ipa":        {Type: genai.TypeString},
					"simplified": {Type: genai.TypeString},
				},
				Required: []string{"ipa", "simplified"},
			},
			"partOfSpeech": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"type":        {Type: genai.TypeString},
					"description": {Type: genai.TypeString},
				},
				Required: []string{"type", "description"},
			},
			"definitions": {
				Type:     genai.TypeArray,
				MinItems: genai.Ptr[int64](1),
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"definition":         {Type: genai.TypeString},
						"translation":        {Type: genai.TypeString},
						"example":            {Type: genai.TypeString},
						"exampleTranslation": {Type: genai.TypeString},
					},
					Required: []string{"definition", "translation", "example", "exampleTranslation"},
				},
			},
			"collocations": stringArray,
			"synonyms":     stringArray,
			"antonyms":     stringArray,
			"wordFamily": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"word":        {Type: genai.TypeString},
						"type":        {Type: genai.TypeString},
						"translation": {Type: genai.TypeString},
					},
					Required: []string{"word", "type", "translation"},
				},
			},
			"mnemonics": {
				Type:     genai.TypeArray,
				MinItems: genai.Ptr[int64](2),
				MaxItems: genai.Ptr[int64](3),
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"type":        {Type: genai.TypeString},
						"text":        {Type: genai.TypeString},
						"translation": {Type: genai.TypeString},
					},
					Required: []string{"type", "text", "translation"},
				},
			},
		},
		Required: []string{
			"phonetics", "partOfSpeech", "definitions", "collocations",
			"synonyms", "antonyms", "wordFamily", "mnemonics",
		},
	}
}
