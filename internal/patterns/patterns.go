// Package patterns holds the rule tables used to spot community terms in
// post text. Each table is a plain list of rules so it can be tested on its
// own, independent of detection or accretion.
package patterns

import (
	"regexp"
	"strings"
)

// Kind is the category a rule assigns to matched text.
type Kind string

const (
	KindPerson  Kind = "person"
	KindFeature Kind = "feature"
	KindCulture Kind = "culture"
	KindTopic   Kind = "topic"
	KindChannel Kind = "channel"
	KindTool    Kind = "tool"
	KindUnknown Kind = "unknown"
)

// Rule maps a pattern to a category and the knowledge id it refers to.
// When Group is non-zero the reported text is that capture group instead
// of the whole match.
type Rule struct {
	Pattern     *regexp.Regexp
	Kind        Kind
	CanonicalID string
	Group       int
}

// Match is one occurrence of a rule in a text.
type Match struct {
	Rule *Rule
	Text string
}

func rule(expr string, kind Kind, id string) *Rule {
	return &Rule{Pattern: regexp.MustCompile(expr), Kind: kind, CanonicalID: id}
}

// Culture lists greetings and in-jokes of the community.
var Culture = []*Rule{
	rule(`(?i)\bgm\b`, KindCulture, "gm"),
	rule(`(?i)\bwagmi\b`, KindCulture, "wagmi"),
	rule(`(?i)\bngmi\b`, KindCulture, "ngmi"),
	rule(`(?i)\bfrens\b`, KindCulture, "frens"),
	rule(`(?i)\bdegen\b`, KindCulture, "degen"),
}

// Tools lists bots and apps people mention by name.
var Tools = []*Rule{
	rule(`(?i)@harmonybot\b`, KindTool, "harmony-bot"),
	rule(`(?i)\bharmony\s+bot\b`, KindTool, "harmony-bot"),
	rule(`(?i)@bankr\b`, KindTool, "bankr"),
	rule(`(?i)\bbankr\b`, KindTool, "bankr"),
	rule(`(?i)\bnyor\b`, KindTool, "nyor"),
	rule(`(?i)\bemerge\b`, KindTool, "emerge"),
}

// Features lists platform features. They are never resolved against the
// knowledge store during detection.
var Features = []*Rule{
	rule(`(?i)\bmini\s+app\b`, KindFeature, "mini-apps"),
	rule(`(?i)\bframe\b`, KindFeature, "frames"),
	rule(`(?i)\bframes\b`, KindFeature, "frames"),
	rule(`(?i)\bbase\s+app\b`, KindFeature, "base-app"),
	rule(`(?i)\bcoinbase\b`, KindFeature, "coinbase"),
}

// Channels matches channel markers such as /farcaster. The marker must
// open the text or follow whitespace or a parenthesis, so URL paths are
// not taken for channels.
var Channels = []*Rule{
	{Pattern: regexp.MustCompile(`(?:^|[\s(])(/[a-z0-9-]+)`), Kind: KindChannel, Group: 1},
}

// ChannelID returns the knowledge id for a channel marker ("/base" -> "channel-base").
func ChannelID(marker string) string {
	return "channel-" + strings.TrimPrefix(strings.ToLower(marker), "/")
}

// FindAll returns every match of every rule in table order, and within a
// rule in text order.
func FindAll(rules []*Rule, text string) []Match {
	var out []Match
	for _, r := range rules {
		if r.Group == 0 {
			for _, m := range r.Pattern.FindAllString(text, -1) {
				out = append(out, Match{Rule: r, Text: m})
			}
			continue
		}
		for _, sm := range r.Pattern.FindAllStringSubmatch(text, -1) {
			if len(sm) > r.Group && sm[r.Group] != "" {
				out = append(out, Match{Rule: r, Text: sm[r.Group]})
			}
		}
	}
	return out
}

// ID returns the knowledge id a match refers to. Channel rules carry no
// fixed id, so it is derived from the marker.
func (m Match) ID() string {
	if m.Rule.CanonicalID != "" {
		return m.Rule.CanonicalID
	}
	if m.Rule.Kind == KindChannel {
		return ChannelID(m.Text)
	}
	return strings.ToLower(m.Text)
}
