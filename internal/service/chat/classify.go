package chat

import "strings"

// Category is the failure class of a settled exchange.
type Category string

const (
	CategoryNone        Category = "ok"
	CategoryAuth        Category = "auth"
	CategoryPermission  Category = "permission"
	CategoryRateLimit   Category = "rate_limit"
	CategoryUnavailable Category = "upstream_unavailable"
	CategoryNetwork     Category = "network"
	CategoryUnknown     Category = "unknown"
)

// Fallback replies substituted for a failed exchange.
const (
	AuthFallback        = "ACCESS DENIED: Invalid Security Credentials (API Key). Please verify environment variables."
	PermissionFallback  = "ACCESS DENIED: Client does not have permission to access this neural network."
	RateLimitFallback   = "SYSTEM OVERLOAD: Traffic surge detected. Rate limit exceeded. Please standby..."
	UnavailableFallback = "SERVER UNREACHABLE: The Matrix is experiencing downtime. Retrying connection..."
	NetworkFallback     = "CONNECTION DROPPED: Check your internet uplink."
	UnknownFallback     = "CRITICAL ERROR: An unknown anomaly has occurred in the mainframe."

	// EmptyReplyFallback replaces a successful but empty reply.
	EmptyReplyFallback = "Signal lost. Re-acquiring target..."
)

// Rule maps an error to a category when its text contains any of Markers.
// Markers are matched against the lower-cased error string.
type Rule struct {
	Category Category
	Markers  []string
	Fallback string
}

// Matches reports whether text (already lower-cased) contains one of the markers.
func (r Rule) Matches(text string) bool {
	for _, m := range r.Markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// DefaultRules is evaluated top to bottom; the first match wins.
var DefaultRules = []Rule{
	{Category: CategoryAuth, Markers: []string{"401", "api key"}, Fallback: AuthFallback},
	{Category: CategoryPermission, Markers: []string{"403", "permission"}, Fallback: PermissionFallback},
	{Category: CategoryRateLimit, Markers: []string{"429", "quota", "resource exhausted"}, Fallback: RateLimitFallback},
	{Category: CategoryUnavailable, Markers: []string{"503", "service unavailable"}, Fallback: UnavailableFallback},
	{Category: CategoryNetwork, Markers: []string{"fetch failed", "network"}, Fallback: NetworkFallback},
}

// Classifier turns an exchange failure into a category and persona-styled reply.
type Classifier struct {
	rules []Rule
}

// NewClassifier uses rules in order. A nil slice means DefaultRules.
func NewClassifier(rules []Rule) *Classifier {
	if rules == nil {
		rules = DefaultRules
	}
	return &Classifier{rules: append([]Rule(nil), rules...)}
}

// Classify returns the first matching rule's category and fallback, or the unknown fallback.
func (c *Classifier) Classify(err error) (Category, string) {
	if err == nil {
		return CategoryNone, ""
	}

	text := strings.ToLower(err.Error())
	for _, rule := range c.rules {
		if rule.Matches(text) {
			return rule.Category, rule.Fallback
		}
	}
	return CategoryUnknown, UnknownFallback
}

// Rules returns a copy of the ordered rule list.
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}
