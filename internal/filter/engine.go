// Package filter evaluates user automation rules and the sender
// blocklist against messages. Everything here is pure: the engine
// returns decisions and modified copies, it never mutates its inputs
// and never performs the persistence step itself.
package filter

import (
	"strings"

	"github.com/mchen04/penguin-mail/internal/model"
)

// operatorFunc compares a lower-cased field text against a lower-cased
// condition value.
type operatorFunc func(fieldText, value string) bool

// operators is a total table: any operator missing here evaluates to
// false instead of aborting rule evaluation.
var operators = map[string]operatorFunc{
	model.OperatorContains:    strings.Contains,
	model.OperatorEquals:      func(f, v string) bool { return f == v },
	model.OperatorStartsWith:  strings.HasPrefix,
	model.OperatorEndsWith:    strings.HasSuffix,
	model.OperatorNotContains: func(f, v string) bool { return !strings.Contains(f, v) },
}

// fieldText builds the searchable text for a condition field. The
// second return is false for fields with no text representation.
func fieldText(e model.Email, field string) (string, bool) {
	switch field {
	case model.FieldFrom:
		return e.From.Name + " " + e.From.Email, true
	case model.FieldTo:
		parts := make([]string, 0, len(e.To))
		for _, r := range e.To {
			parts = append(parts, r.Name+" "+r.Email)
		}
		return strings.Join(parts, " "), true
	case model.FieldSubject:
		return e.Subject, true
	case model.FieldBody:
		return e.Body, true
	default:
		return "", false
	}
}

// MatchesCondition reports whether one condition holds for a message.
// Text comparisons are case-insensitive; hasAttachment compares the
// boolean against the literal value "true"/"false". Unknown fields and
// operators never match.
func MatchesCondition(e model.Email, c model.Condition) bool {
	value := strings.ToLower(c.Value)

	if c.Field == model.FieldHasAttachment {
		return e.HasAttachment == (value == "true")
	}

	text, ok := fieldText(e, c.Field)
	if !ok {
		return false
	}
	op, ok := operators[c.Operator]
	if !ok {
		return false
	}
	return op(strings.ToLower(text), value)
}

// RuleMatches reports whether a rule applies to a message. Disabled
// rules and rules without conditions never match.
func RuleMatches(e model.Email, r model.FilterRule) bool {
	if !r.Enabled || len(r.Conditions) == 0 {
		return false
	}
	if r.MatchAll {
		for _, c := range r.Conditions {
			if !MatchesCondition(e, c) {
				return false
			}
		}
		return true
	}
	for _, c := range r.Conditions {
		if MatchesCondition(e, c) {
			return true
		}
	}
	return false
}

// MatchingRuleNames returns the names of every rule that would match
// the message, in stored rule order. Diagnostic companion to Apply.
func MatchingRuleNames(e model.Email, rules []model.FilterRule) []string {
	var names []string
	for _, r := range rules {
		if RuleMatches(e, r) {
			names = append(names, r.Name)
		}
	}
	return names
}

// IsBlocked reports whether the message sender is on the blocklist.
// The comparison is a case-sensitive exact match on the bare address;
// the display name is ignored.
func IsBlocked(e model.Email, blocked []model.BlockedAddress) bool {
	for _, b := range blocked {
		if e.From.Email == b.Email {
			return true
		}
	}
	return false
}

// ApplyRule returns a copy of the message with one matching rule's
// actions applied. Actions run in list order, so a later action on the
// same field wins. The caller has already established the match.
func ApplyRule(e model.Email, r model.FilterRule) model.Email {
	for _, a := range r.Actions {
		switch a.Type {
		case model.ActionDelete:
			e.Folder = model.FolderTrash
		case model.ActionArchive:
			e.Folder = model.FolderArchive
		case model.ActionMoveTo:
			if a.Value != "" {
				e.Folder = a.Value
			}
		case model.ActionAddLabel:
			if a.Value != "" && !hasLabel(e.Labels, a.Value) {
				e.Labels = append(append([]string(nil), e.Labels...), a.Value)
			}
		case model.ActionMarkAsRead:
			e.IsRead = true
		case model.ActionMarkAsStarred:
			e.IsStarred = true
		}
	}
	return e
}

// ApplyRules returns a copy of the message with every matching enabled
// rule applied, in stored rule order. All matching rules contribute;
// there is no short-circuit on first match.
func ApplyRules(e model.Email, rules []model.FilterRule) model.Email {
	for _, r := range rules {
		if RuleMatches(e, r) {
			e = ApplyRule(e, r)
		}
	}
	return e
}

// Apply produces the message collection the UI should show: blocked
// senders are excluded outright (independent of any rule state), then
// every enabled rule is applied to the remainder.
func Apply(emails []model.Email, rules []model.FilterRule, blocked []model.BlockedAddress) []model.Email {
	out := make([]model.Email, 0, len(emails))
	for _, e := range emails {
		if IsBlocked(e, blocked) {
			continue
		}
		out = append(out, ApplyRules(e, rules))
	}
	return out
}

func hasLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
