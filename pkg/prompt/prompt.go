package prompt

import (
	"fmt"
	"strings"

	"github.com/aretw0/aura/pkg/domain"
)

// DefaultMaxWords is the number of query words kept by the greeting prompt.
const DefaultMaxWords = 10

// SystemPrompt wraps template text as a system message.
func SystemPrompt(templateText string) domain.Message {
	return domain.SystemMessage(templateText)
}

// UserQueryPrompt builds [system(template), human(query)].
// Only leading and trailing whitespace of the query is removed.
func UserQueryPrompt(templateText, userQuery string) []domain.Message {
	return []domain.Message{
		SystemPrompt(templateText),
		domain.HumanMessage(strings.TrimSpace(userQuery)),
	}
}

// GreetingPrompt builds [system(template), human(summary)] where the summary mentions only the
// first maxWords words of the query. maxWords <= 0 means DefaultMaxWords.
func GreetingPrompt(templateText, userQuery string, maxWords int) []domain.Message {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	truncated := TruncateWords(userQuery, maxWords)
	return []domain.Message{
		SystemPrompt(templateText),
		domain.HumanMessage(fmt.Sprintf("The first %d words of the user's query are: %s", maxWords, truncated)),
	}
}

// TruncateWords keeps the first n whitespace-separated tokens of text, re-joined with single spaces.
func TruncateWords(text string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
