package prompt_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/aura/pkg/adapters/memory"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserQueryPrompt(t *testing.T) {
	msgs := prompt.UserQueryPrompt("SYS", "  What is   Go?\n")
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.SystemMessage("SYS"), msgs[0])
	// Only the edges are trimmed; inner spacing is preserved.
	assert.Equal(t, domain.HumanMessage("What is   Go?"), msgs[1])
}

func TestGreetingPrompt(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		maxWords int
		want     string
	}{
		{
			name:  "Truncates to ten words",
			query: "one two three four five six seven eight nine ten eleven twelve",
			want:  "The first 10 words of the user's query are: one two three four five six seven eight nine ten",
		},
		{
			name:  "Collapses whitespace",
			query: "  hello\t\tworld \n again ",
			want:  "The first 10 words of the user's query are: hello world again",
		},
		{
			name:     "Custom limit",
			query:    "a b c d",
			maxWords: 2,
			want:     "The first 2 words of the user's query are: a b",
		},
		{
			name:     "Non positive limit uses default",
			query:    "a b",
			maxWords: -1,
			want:     "The first 10 words of the user's query are: a b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := prompt.GreetingPrompt("GREET", tt.query, tt.maxWords)
			require.Len(t, msgs, 2)
			assert.Equal(t, domain.RoleSystem, msgs[0].Role)
			assert.Equal(t, "GREET", msgs[0].Content)
			assert.Equal(t, domain.RoleHuman, msgs[1].Role)
			assert.Equal(t, tt.want, msgs[1].Content)
		})
	}
}

func TestGreetingPrompt_TwentyWordsKeepsTen(t *testing.T) {
	query := strings.Repeat("word ", 20)
	msgs := prompt.GreetingPrompt("G", query, 0)
	summary := strings.TrimPrefix(msgs[1].Content, "The first 10 words of the user's query are: ")
	assert.Len(t, strings.Fields(summary), 10)
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "", prompt.TruncateWords("a b", 0))
	assert.Equal(t, "", prompt.TruncateWords("   ", 3))
	assert.Equal(t, "a b", prompt.TruncateWords("a   b", 5))
}

func TestAssembler(t *testing.T) {
	asm := prompt.New("SYS")
	assert.False(t, asm.HasGreeting())
	assert.Equal(t, domain.SystemMessage("SYS"), asm.System())
	assert.Equal(t, prompt.DefaultMaxWords, asm.MaxWords())

	asm = prompt.New("SYS", prompt.WithGreeting("HI"), prompt.WithMaxWords(3))
	assert.True(t, asm.HasGreeting())
	msgs := asm.Greeting("a b c d e")
	assert.Equal(t, "The first 3 words of the user's query are: a b c", msgs[1].Content)
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	src := memory.NewSource(map[string]string{
		"system":   "You are Aura.",
		"greeting": "Say hi.",
	})

	t.Run("Loads both templates", func(t *testing.T) {
		asm, err := prompt.Load(ctx, src, prompt.Templates{System: "system", Greeting: "greeting"})
		require.NoError(t, err)
		assert.True(t, asm.HasGreeting())
		assert.Equal(t, "Say hi.", asm.Greeting("q")[0].Content)
	})

	t.Run("Greeting is optional", func(t *testing.T) {
		asm, err := prompt.Load(ctx, src, prompt.Templates{System: "system"})
		require.NoError(t, err)
		assert.False(t, asm.HasGreeting())
	})

	t.Run("Missing template is a config error", func(t *testing.T) {
		_, err := prompt.Load(ctx, src, prompt.Templates{System: "system", Greeting: "nope"})
		require.Error(t, err)
		var cfgErr *domain.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "nope", cfgErr.Key)
		assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
	})

	t.Run("Idempotent loading", func(t *testing.T) {
		a1, err := prompt.Load(ctx, src, prompt.Templates{System: "system", Greeting: "greeting"})
		require.NoError(t, err)
		a2, err := prompt.Load(ctx, src, prompt.Templates{System: "system", Greeting: "greeting"})
		require.NoError(t, err)
		assert.Equal(t, a1.UserQuery("hello"), a2.UserQuery("hello"))
		assert.Equal(t, a1.Greeting("hello"), a2.Greeting("hello"))
	})
}
