package values

import "strings"

// Kind is the resource type of a model.
type Kind string

// Known kinds, keyed by reddit type prefix.
const (
	KindUnknown   Kind = "unknown"
	KindComment   Kind = "comment"
	KindAccount   Kind = "account"
	KindLink      Kind = "link"
	KindMessage   Kind = "message"
	KindSubreddit Kind = "subreddit"
	KindAward     Kind = "award"
)

var kindsByPrefix = map[string]Kind{
	"t1": KindComment,
	"t2": KindAccount,
	"t3": KindLink,
	"t4": KindMessage,
	"t5": KindSubreddit,
	"t6": KindAward,
}

// KindFromPrefix maps a type prefix such as "t3" to its Kind.
// Unrecognised prefixes yield KindUnknown.
func KindFromPrefix(prefix string) Kind {
	if k, ok := kindsByPrefix[strings.ToLower(prefix)]; ok {
		return k
	}
	return KindUnknown
}

// Prefix returns the type prefix for the kind, or "" for KindUnknown and custom kinds.
func (k Kind) Prefix() string {
	for prefix, kind := range kindsByPrefix {
		if kind == k {
			return prefix
		}
	}
	return ""
}

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// IsKnown reports whether the kind maps to a reddit type prefix.
func (k Kind) IsKnown() bool {
	return k.Prefix() != ""
}
