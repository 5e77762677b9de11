// internal/app/services/router/router.go

// Package smsrouter decides which group an inbound text belongs to.
// It is a pure function over the sender's active groups and the raw
// body: no storage access, no errors. Ambiguous or unresolvable input
// is a normal typed outcome, and the two "no target" end states (the
// sender has no groups vs. clarification needed) stay distinguishable
// so the caller can pick the right reply text.
package smsrouter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// tagPattern matches "#<tag> <rest>" over the whole trimmed body.
// DOTALL so multi-line bodies keep their remainder intact.
var tagPattern = regexp.MustCompile(`(?s)^#(\S+)\s+(.+)$`)

// Candidate is one group the sender actively belongs to.
// LastMessageAt is nil when the group has no messages yet.
type Candidate struct {
	ID            primitive.ObjectID
	Name          string
	LastMessageAt *time.Time
}

// Decision is the routing outcome. Exactly one of Target,
// NeedsClarification, or NoGroups describes the end state; Content is
// always the message text with any tag stripped.
type Decision struct {
	Target             *Candidate
	Content            string
	NeedsClarification bool
	NoGroups           bool
	CandidateNames     []string
}

// ParseTag splits an explicit "#group rest" prefix off the body.
// tag is "" when the body carries no tag; content is trimmed either
// way.
func ParseTag(body string) (tag, content string) {
	body = strings.TrimSpace(body)
	if m := tagPattern.FindStringSubmatch(body); m != nil {
		return m[1], strings.TrimSpace(m[2])
	}
	return "", body
}

// Route maps the body to a target group given the sender's active
// groups, in the sender's join order.
//
// With an explicit tag: exact case-insensitive name match wins, then
// case-insensitive substring (tag contained in name). Substring
// candidates are scanned in name order with ties broken by group id,
// so the same tag always resolves the same way. A tag matching
// nothing never fabricates a group.
//
// Without a tag: a single group is implicit; among several, the group
// with the newest message wins (ties by ascending id), and when no
// group has any message the sender must clarify.
func Route(groups []Candidate, rawBody string) Decision {
	tag, content := ParseTag(rawBody)

	if len(groups) == 0 {
		return Decision{NoGroups: true, Content: content}
	}

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}

	if tag != "" {
		if g := matchTag(groups, tag); g != nil {
			return Decision{Target: g, Content: content}
		}
		return Decision{NeedsClarification: true, Content: content, CandidateNames: names}
	}

	if len(groups) == 1 {
		g := groups[0]
		return Decision{Target: &g, Content: content}
	}

	if g := mostRecent(groups); g != nil {
		return Decision{Target: g, Content: content}
	}
	return Decision{NeedsClarification: true, Content: content, CandidateNames: names}
}

func matchTag(groups []Candidate, tag string) *Candidate {
	lower := strings.ToLower(tag)

	// Deterministic scan order regardless of how the caller's storage
	// enumerates: name (folded) ascending, then id.
	ordered := make([]Candidate, len(groups))
	copy(ordered, groups)
	sort.Slice(ordered, func(i, j int) bool {
		ni, nj := strings.ToLower(ordered[i].Name), strings.ToLower(ordered[j].Name)
		if ni != nj {
			return ni < nj
		}
		return ordered[i].ID.Hex() < ordered[j].ID.Hex()
	})

	for i := range ordered {
		if strings.ToLower(ordered[i].Name) == lower {
			return &ordered[i]
		}
	}
	for i := range ordered {
		if strings.Contains(strings.ToLower(ordered[i].Name), lower) {
			return &ordered[i]
		}
	}
	return nil
}

func mostRecent(groups []Candidate) *Candidate {
	var best *Candidate
	for i := range groups {
		g := &groups[i]
		if g.LastMessageAt == nil {
			continue
		}
		switch {
		case best == nil,
			g.LastMessageAt.After(*best.LastMessageAt),
			g.LastMessageAt.Equal(*best.LastMessageAt) && g.ID.Hex() < best.ID.Hex():
			best = g
		}
	}
	return best
}

// NoGroupsText is the reply for senders with no active memberships.
const NoGroupsText = "You're not in any groups. Join a group at the website to start chatting."

// ClarificationText lists the sender's groups literally and asks for
// an explicit tag.
func ClarificationText(names []string) string {
	return fmt.Sprintf(
		"Which group? Reply with #groupname followed by your message. Your groups: %s",
		strings.Join(names, ", "),
	)
}
