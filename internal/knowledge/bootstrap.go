package knowledge

import (
	"time"

	"github.com/ziadkadry99/fc-companion/internal/patterns"
)

// Bootstrap returns the built-in entries a new library starts with:
// common greetings and in-jokes, and the tools people mention most.
func Bootstrap(now time.Time) []Entry {
	now = now.UTC()
	entry := func(id string, kind patterns.Kind, title, desc, expl, why string, examples, related []string, conf float64) Entry {
		return Entry{
			ID:          id,
			Type:        kind,
			Title:       title,
			Description: desc,
			Explanation: expl,
			WhyMatters:  why,
			Examples:    examples,
			Sources:     []string{},
			FirstSeen:   now,
			LastUpdated: now,
			Confidence:  conf,
			Related:     related,
		}
	}

	return []Entry{
		entry("gm", patterns.KindCulture,
			"gm (good morning)",
			"Common greeting on Farcaster",
			`gm is short for "good morning", a common greeting in the Farcaster community. It's used throughout the day, not just in the morning, as a friendly way to say hello.`,
			"It's the most common greeting on Farcaster. Not knowing this makes you stand out as a newcomer.",
			[]string{"gm frens", "gm gm", "gm everyone"}, []string{}, 1.0),
		entry("wagmi", patterns.KindCulture,
			"wagmi (we all gonna make it)",
			"Positive community sentiment",
			`wagmi means "we all gonna make it", an expression of optimism and community support. Used to encourage others and express confidence in the community's success.`,
			"Common expression of community solidarity and optimism.",
			[]string{"wagmi frens", "we wagmi"}, []string{}, 1.0),
		entry("ngmi", patterns.KindCulture,
			"ngmi (not gonna make it)",
			"Opposite of wagmi",
			`ngmi means "not gonna make it", used humorously or seriously to indicate someone is missing out or making poor decisions.`,
			"Common expression, often used in jest or to call out bad behavior.",
			[]string{"ngmi if you don't understand this", "that's ngmi behavior"}, []string{"wagmi"}, 1.0),
		entry("harmony-bot", patterns.KindTool,
			"Harmony Bot",
			"AI art generator for profile pictures",
			"Harmony bot creates AI-generated art versions of your profile picture. It has ongoing themes that evolve, and you can gift your friends.",
			"A wholesome, budget-friendly way to gift friends and create unique art.",
			[]string{"Tag @harmonybot to create art", "Gift art to friends"}, []string{}, 0.8),
		entry("emerge", patterns.KindTool,
			"Emerge",
			"Flexible AI art generator",
			"Emerge is similar to Harmony bot but more flexible and cheaper. It can create any style of art, not just fixed themes.",
			"More flexible than Harmony bot, cheaper, still wholesome and fun.",
			[]string{"Create any style of art", "Gift to friends"}, []string{"harmony-bot"}, 0.8),
		entry("bankr", patterns.KindTool,
			"Bankr",
			"AI-powered trading agent",
			"Bankr is an AI-powered trading agent that lets you trade using natural language commands. It supports cross-chain trading, limit orders and token deployment.",
			"One of the best trading tools on Farcaster, but has a learning curve.",
			[]string{"Buy $200 of $BNKR", "Swap 0.1 ETH to USDC"}, []string{}, 0.9),
		entry("nyor", patterns.KindTool,
			"Nyor",
			"Easy contextual on-chain data tool",
			"Nyor (by apple.eth) provides a chat interface with contextual on-chain data. Easier for newcomers than Bankr.",
			"Great for beginners who want on-chain context without the complexity of Bankr.",
			[]string{"Check wallet context", "Get on-chain insights"}, []string{"bankr"}, 0.8),
	}
}

// NewSeededStore returns a store holding the bootstrap entries.
func NewSeededStore(now time.Time) *Store {
	s := NewStore()
	for _, e := range Bootstrap(now) {
		s.entries[e.ID] = e.clone()
	}
	return s
}
