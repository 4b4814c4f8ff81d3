package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

const demoPassage = "The sun is a star. It gives us light. It gives us heat. Plants need the light to grow. " +
	"We eat the plants. The sun is far away. We still feel it each day."

// demoCounts matches the question and choice counts in the question
// generation system prompt.
var demoCounts = regexp.MustCompile(`exactly (\d+) questions and (\d+) choices`)

// NewDemoProvider returns a MockProvider that never runs dry. Plain
// requests get a short English passage; structured requests get a question
// set sized from the counts in the system prompt.
func NewDemoProvider() *MockProvider {
	m := NewMockProvider()
	m.fallback = demoResponse
	return m
}

type demoQuestion struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Answer   string   `json:"answer"`
}

func demoResponse(req Request) MockResponse {
	if req.Schema == nil && !req.JSON {
		return MockText(demoPassage)
	}

	n, k := 3, 4
	if m := demoCounts.FindStringSubmatch(req.System); m != nil {
		n, _ = strconv.Atoi(m[1])
		k, _ = strconv.Atoi(m[2])
	}
	n = max(n, 1)
	k = min(max(k, 2), 26)

	qs := make([]demoQuestion, n)
	for i := range qs {
		choices := make([]string, k)
		for j := range choices {
			choices[j] = fmt.Sprintf("Option %c", 'A'+j)
		}
		qs[i] = demoQuestion{
			Question: fmt.Sprintf("Demo question %d: which option is correct?", i+1),
			Choices:  choices,
			Answer:   choices[i%k],
		}
	}

	b, err := json.Marshal(map[string]any{"questions": qs})
	if err != nil {
		return MockResponse{Err: err}
	}
	return MockResponse{Content: b}
}
