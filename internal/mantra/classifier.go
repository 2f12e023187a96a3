package mantra

import "strings"

type Category string

const (
	CategoryLesson Category = "lesson"
	CategoryFear   Category = "fear"
)

type rule struct {
	keywords []string
	phrase   string
}

// Order matters: inputs often hit several rules and the first one wins.
var lessonRules = []rule{
	{keywords: []string{"google", "stackoverflow", "search"}, phrase: "resourcefulness in finding solutions"},
	{keywords: []string{"debug", "fix", "solve"}, phrase: "systematic problem-solving approach"},
	{keywords: []string{"ask", "help", "collaborat", "peer"}, phrase: "the power of collaboration and communication"},
	{keywords: []string{"practice", "learn", "try"}, phrase: "continuous learning and adaptation"},
	{keywords: []string{"test", "check", "verify"}, phrase: "attention to detail and thorough validation"},
}

var fearRules = []rule{
	{keywords: []string{"not good", "not smart", "imposter"}, phrase: "moments of self-doubt"},
	{keywords: []string{"new", "technology", "framework"}, phrase: "learning new technologies"},
	{keywords: []string{"complex", "hard", "difficult"}, phrase: "complex challenges"},
	{keywords: []string{"fail", "mistake", "wrong", "deployment"}, phrase: "the possibility of failure"},
}

const trailingPunctuation = ".,!?;:"

// Classify maps free text to a canonical phrase. It never fails: unmatched
// input comes back normalized.
func Classify(input string, category Category) string {
	text := normalize(input)

	switch category {
	case CategoryLesson:
		if phrase, ok := matchRules(text, lessonRules); ok {
			return phrase
		}
	case CategoryFear:
		if phrase, ok := matchRules(text, fearRules); ok {
			return phrase
		}
		if text == "debugging" {
			return "complex debugging challenges"
		}
		if !strings.Contains(text, " ") && !strings.HasPrefix(text, "the ") && !strings.HasPrefix(text, "my ") {
			text = "the " + text
		}
	}
	return text
}

func normalize(input string) string {
	text := strings.TrimSpace(strings.ToLower(input))
	if text != "" && strings.ContainsRune(trailingPunctuation, rune(text[len(text)-1])) {
		text = text[:len(text)-1]
	}
	return text
}

func matchRules(text string, rules []rule) (string, bool) {
	for _, r := range rules {
		if containsAny(text, r.keywords) {
			return r.phrase, true
		}
	}
	return "", false
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
