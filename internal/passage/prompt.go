package passage

import (
	"fmt"
	"strings"

	"github.com/abhisek/readquiz/internal/generation"
)

const englishSystemPrompt = `You are a professional language teacher tasked to create a reading passage. Do not give any output besides the text; do not include things like "ok here is your text" or "here is the text". Always make sure that the generated text is in English even if the topic is in another language.`

func otherLanguageSystemPrompt(in Input) string {
	return fmt.Sprintf(`You are a professional language teacher tasked to create a reading passage. Do not give any output besides the text; do not include things like "ok here is your text" or "here is the text". Always make sure that the generated text is in %s even if the topic is in another language. Make sure that the style is %s and the level is %s.`,
		in.Language, in.Style, in.Level)
}

func complexityHint(level generation.Level) string {
	switch level {
	case generation.LevelBasic:
		return "simple sentences/common words"
	case generation.LevelIntermediate:
		return "more complex sentences/some specialized terms"
	default:
		return "complex structures/domain-specific vocabulary"
	}
}

// attempt is the calibration feedback: the best score so far and the text
// of the latest iteration.
type attempt struct {
	score float64
	text  string
}

// buildEnglishPrompt builds the calibration prompt. prev is nil on the
// first iteration.
func buildEnglishPrompt(in Input, prev *attempt) string {
	level := strings.ToLower(string(in.Level))
	style := strings.ToLower(in.Style)

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s level reading passage in English about %q with a %s tone.\n", level, in.Topic, style)
	b.WriteString("Guidelines:\n")
	b.WriteString("- Important: Even if the topic is in another language the entire text MUST be in English.\n")
	fmt.Fprintf(&b, "- Target Word Count: %s words.\n", WordRanges[in.Level])
	fmt.Fprintf(&b, "- Vocabulary/Complexity: Use vocabulary and sentence structures appropriate for the %s level (%s).\n", in.Level, complexityHint(in.Level))
	b.WriteString("- Content: Ensure cohesive paragraphs with clear transitions. Develop the topic with appropriate depth for the level.\n")
	fmt.Fprintf(&b, "- Style: Maintain a consistent %s tone throughout.\n", style)
	b.WriteString("- Output: Provide ONLY the reading passage text, nothing else. No introductory phrases, explanations, or formatting beyond paragraphs.")

	if prev == nil {
		return b.String()
	}

	r := LevelRanges[in.Level]
	switch {
	case prev.score < r.Low:
		fmt.Fprintf(&b, "\n- NOTE: The previous attempt scored %.2f (Gunning Fog), which was too simple for the target range %g-%g. Please generate a significantly more complex text.", prev.score, r.Low, r.High)
	case prev.score > r.High:
		fmt.Fprintf(&b, "\n- NOTE: The previous attempt scored %.2f (Gunning Fog), which was too complex for the target range %g-%g. Please generate a significantly simpler text.", prev.score, r.Low, r.High)
	default:
		fmt.Fprintf(&b, "\n- NOTE: The previous attempt scored %.2f (Gunning Fog). Aim closer to the middle of the target range %g-%g.", prev.score, r.Low, r.High)
	}
	if prev.text != "" {
		fmt.Fprintf(&b, "\n\nHere is the previous generated text for reference:\n---\n%s\n---\nPlease use this as a reference and adjust the new passage accordingly.", prev.text)
	}
	return b.String()
}

func buildOtherLanguagePrompt(in Input) string {
	level := strings.ToLower(string(in.Level))
	style := strings.ToLower(in.Style)

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s level reading passage strictly in the %s language about %q with a %s tone.\n", level, in.Language, in.Topic, style)
	b.WriteString("Guidelines:\n")
	fmt.Fprintf(&b, "- Important: Even if the topic is in another language the entire text MUST be in %s.\n", in.Language)
	fmt.Fprintf(&b, "- Target Word Count: Approximately %s words.\n", WordRanges[in.Level])
	fmt.Fprintf(&b, "- Vocabulary/Complexity: Use vocabulary and sentence structures appropriate for a %s learner of %s.\n", in.Level, in.Language)
	b.WriteString("- Content: Ensure cohesive paragraphs with clear transitions. Develop the topic with appropriate depth for the level.\n")
	fmt.Fprintf(&b, "- Style: Maintain a consistent %s tone throughout.\n", style)
	fmt.Fprintf(&b, "- Output: Provide ONLY the reading passage text in %s, nothing else. No introductory phrases, explanations, or formatting beyond paragraphs.", in.Language)
	return b.String()
}
