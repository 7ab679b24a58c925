package following

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// ErrInvalidOption is returned for options outside their domain.
var ErrInvalidOption = errors.New("invalid following option")

// Classification is the role an account most likely plays in the community.
type Classification string

const (
	ClassBuilder     Classification = "builder"
	ClassCreator     Classification = "creator"
	ClassTrader      Classification = "trader"
	ClassPowerPlayer Classification = "power-player"
	ClassCommunity   Classification = "community"
	ClassUnknown     Classification = "unknown"
)

// priority orders classifications for Best, highest first.
var priority = map[Classification]int{
	ClassBuilder:     5,
	ClassCreator:     4,
	ClassPowerPlayer: 3,
	ClassCommunity:   2,
	ClassTrader:      1,
	ClassUnknown:     0,
}

const (
	influentialFollowers = 1000
	activeFollowers      = 100
	powerPlayerFollowers = 5000

	// DefaultBestMinFollowers and DefaultBestTopN apply when BestOptions
	// leaves them zero.
	DefaultBestMinFollowers = 50
	DefaultBestTopN         = 20
)

// Profile is an account record supplied by the social-graph service.
type Profile struct {
	FID               int64    `json:"fid"`
	Username          string   `json:"username"`
	DisplayName       string   `json:"display_name,omitempty"`
	Bio               string   `json:"bio,omitempty"`
	FollowerCount     int      `json:"follower_count"`
	FollowingCount    int      `json:"following_count"`
	PfpURL            string   `json:"pfp_url,omitempty"`
	VerifiedAddresses []string `json:"verified_addresses,omitempty"`
}

// Analysis is a profile with its classification and follow reasons.
type Analysis struct {
	Profile
	Classification Classification `json:"classification"`
	WhyFollow      []string       `json:"why_follow,omitempty"`
}

// Options controls Analyze.
type Options struct {
	MinFollowers int
	SkipReasons  bool
}

// BestOptions controls Best. Zero values select the defaults.
type BestOptions struct {
	MinFollowers int
	TopN         int
}

type keywordRule struct {
	keywords []string
	class    Classification
}

// classRules are evaluated in order; the first bio match wins.
var classRules = []keywordRule{
	{[]string{"builder", "dev", "engineer", "developer"}, ClassBuilder},
	{[]string{"artist", "creator", "design", "creative"}, ClassCreator},
	{[]string{"trading", "trader", "degen", "crypto"}, ClassTrader},
}

var communityKeywords = []string{"community", "mod", "admin"}

type reasonRule struct {
	keywords []string
	reason   string
}

var reasonRules = []reasonRule{
	{[]string{"builder", "build", "dev", "developer"}, "Builder/Developer"},
	{[]string{"founder", "co-founder", "cofounder"}, "Founder"},
	{[]string{"artist", "creator", "design", "creative"}, "Creator/Artist"},
	{[]string{"trading", "trader", "degen"}, "Trader"},
	{[]string{"farcaster", "fc", "warpcast"}, "Farcaster community"},
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// Classify derives a classification from bio keywords, falling back to
// follower count for power players and then community keywords.
func Classify(p Profile) Classification {
	bio := strings.ToLower(p.Bio)
	for _, r := range classRules {
		if containsAny(bio, r.keywords) {
			return r.class
		}
	}
	if p.FollowerCount > powerPlayerFollowers {
		return ClassPowerPlayer
	}
	if containsAny(bio, communityKeywords) {
		return ClassCommunity
	}
	return ClassUnknown
}

// Reasons explains why an account is worth following. It always returns
// at least one reason.
func Reasons(p Profile) []string {
	var reasons []string
	if p.FollowerCount > influentialFollowers {
		reasons = append(reasons, fmt.Sprintf("Influential (%s followers)", humanize.Comma(int64(p.FollowerCount))))
	}
	if len(p.VerifiedAddresses) > 0 {
		reasons = append(reasons, "Onchain activity (verified addresses)")
	}

	bio := strings.ToLower(p.Bio)
	for _, r := range reasonRules {
		if containsAny(bio, r.keywords) {
			reasons = append(reasons, r.reason)
		}
	}

	if len(reasons) == 0 {
		if p.FollowerCount > activeFollowers {
			return []string{"Active community member"}
		}
		return []string{"Following for context"}
	}
	return reasons
}

// Analyze classifies every profile with at least MinFollowers followers,
// most followed first. Ties keep input order.
func Analyze(profiles []Profile, opts Options) ([]Analysis, error) {
	if opts.MinFollowers < 0 {
		return nil, fmt.Errorf("%w: min followers %d is negative", ErrInvalidOption, opts.MinFollowers)
	}

	out := make([]Analysis, 0, len(profiles))
	for _, p := range profiles {
		if p.FollowerCount < opts.MinFollowers {
			continue
		}
		a := Analysis{Profile: p, Classification: Classify(p)}
		if !opts.SkipReasons {
			a.WhyFollow = Reasons(p)
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FollowerCount > out[j].FollowerCount
	})
	return out, nil
}

// Best returns the TopN most valuable follows: builders first, then
// creators, power players, community members and traders, each group by
// follower count.
func Best(profiles []Profile, opts BestOptions) ([]Analysis, error) {
	if opts.MinFollowers < 0 || opts.TopN < 0 {
		return nil, fmt.Errorf("%w: min followers %d, top %d", ErrInvalidOption, opts.MinFollowers, opts.TopN)
	}
	if opts.MinFollowers == 0 {
		opts.MinFollowers = DefaultBestMinFollowers
	}
	if opts.TopN == 0 {
		opts.TopN = DefaultBestTopN
	}

	all, err := Analyze(profiles, Options{MinFollowers: opts.MinFollowers})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		pi, pj := priority[all[i].Classification], priority[all[j].Classification]
		if pi != pj {
			return pi > pj
		}
		return all[i].FollowerCount > all[j].FollowerCount
	})
	if len(all) > opts.TopN {
		all = all[:opts.TopN]
	}
	return all, nil
}

// LoadProfiles reads a JSON array of profiles from path.
func LoadProfiles(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles: %w", err)
	}
	var profiles []Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("decoding profiles %s: %w", path, err)
	}
	return profiles, nil
}
