package form

import "github.com/abhisek/readquiz/internal/generation"

type field int

const (
	fieldTopic field = iota
	fieldLanguage
	fieldLevel
	fieldStyle
	fieldTextProvider
	fieldTextModel
	fieldQuestionProvider
	fieldQuestionModel
	fieldQuestions
	fieldChoices
	fieldSubmit
	fieldCount
)

var fieldLabels = map[field]string{
	fieldTopic:            "Topic",
	fieldLanguage:         "Language",
	fieldLevel:            "Level",
	fieldStyle:            "Style",
	fieldTextProvider:     "Text provider",
	fieldTextModel:        "Text model",
	fieldQuestionProvider: "Question provider",
	fieldQuestionModel:    "Question model",
	fieldQuestions:        "Questions",
	fieldChoices:          "Choices each",
}

// fallbackProviders are offered before a catalog has loaded.
var fallbackProviders = []string{"ollama", "groq"}

func (f field) isText() bool {
	switch f {
	case fieldTopic, fieldLanguage, fieldStyle, fieldQuestions, fieldChoices:
		return true
	}
	return false
}

func (f field) isCycle() bool {
	switch f {
	case fieldLevel, fieldTextProvider, fieldTextModel, fieldQuestionProvider, fieldQuestionModel:
		return true
	}
	return false
}

// cycle returns the entry delta steps away from cur, wrapping around. A
// cur not in list starts from the first entry.
func cycle(list []string, cur string, delta int) string {
	if len(list) == 0 {
		return cur
	}
	idx := -1
	for i, v := range list {
		if v == cur {
			idx = i
			break
		}
	}
	if idx < 0 {
		return list[0]
	}
	n := len(list)
	return list[((idx+delta)%n+n)%n]
}

func levelNames() []string {
	out := make([]string, len(generation.Levels))
	for i, l := range generation.Levels {
		out[i] = string(l)
	}
	return out
}
