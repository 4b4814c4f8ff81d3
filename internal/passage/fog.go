package passage

import (
	"strings"
	"unicode"
)

// GunningFog returns the Gunning Fog index of text:
//
//	0.4 * (words/sentences + 100 * complexWords/words)
//
// Complex words have three or more syllables, excluding capitalized words
// that do not start a sentence, hyphenated compounds, and words that only
// reach three syllables through an -es, -ed or -ing ending. Empty text
// scores 0.
func GunningFog(text string) float64 {
	sentences := splitSentences(text)
	var words, complexWords int
	for _, s := range sentences {
		tokens := wordsOf(s)
		for i, w := range tokens {
			words++
			if isComplex(w, i == 0) {
				complexWords++
			}
		}
	}
	if words == 0 {
		return 0
	}
	n := len(sentences)
	if n == 0 {
		n = 1
	}
	return 0.4 * (float64(words)/float64(n) + 100*float64(complexWords)/float64(words))
}

// splitSentences splits on terminal punctuation and blank lines. Fragments
// without any letters are dropped.
func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		s := strings.TrimSpace(b.String())
		b.Reset()
		if strings.IndexFunc(s, unicode.IsLetter) >= 0 {
			out = append(out, s)
		}
	}

	runes := []rune(text)
	for i, r := range runes {
		switch {
		case r == '.' || r == '!' || r == '?':
			b.WriteRune(r)
			// Keep runs like "?!" or "..." in one sentence.
			if i+1 < len(runes) && (runes[i+1] == '.' || runes[i+1] == '!' || runes[i+1] == '?') {
				continue
			}
			flush()
		case r == '\n' && i+1 < len(runes) && runes[i+1] == '\n':
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return out
}

func wordsOf(sentence string) []string {
	fields := strings.FieldsFunc(sentence, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-')
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'-")
		if strings.IndexFunc(f, unicode.IsLetter) >= 0 {
			out = append(out, f)
		}
	}
	return out
}

func isComplex(word string, sentenceStart bool) bool {
	if strings.Contains(word, "-") {
		return false
	}
	if !sentenceStart && unicode.IsUpper([]rune(word)[0]) {
		return false
	}
	lower := strings.ToLower(word)
	if Syllables(lower) < 3 {
		return false
	}
	for _, suffix := range []string{"es", "ed", "ing"} {
		if stem, ok := strings.CutSuffix(lower, suffix); ok && len(stem) > 0 && Syllables(stem) < 3 {
			return false
		}
	}
	return true
}

// Syllables estimates the syllable count of an English word by counting
// vowel groups, dropping a silent final e, and never returning less than 1.
func Syllables(word string) int {
	word = strings.ToLower(strings.Trim(word, "'"))
	if word == "" {
		return 0
	}

	count := 0
	prevVowel := false
	for _, r := range word {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}

	// Silent e: "make", "stone". Not "the", "be", or "-le" endings ("table").
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && len(word) > 2 && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
