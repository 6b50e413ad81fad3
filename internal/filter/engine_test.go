package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mchen04/penguin-mail/internal/model"
)

func newsletterEmail() model.Email {
	return model.Email{
		ID:      "e1",
		From:    model.EmailAddress{Name: "Daily Digest", Email: "news@updates.example.com"},
		To:      []model.EmailAddress{{Name: "Pat", Email: "pat@example.com"}},
		Subject: "Your Weekly Newsletter",
		Body:    "Unsubscribe anytime.",
		Folder:  model.FolderInbox,
	}
}

func TestMatchesCondition(t *testing.T) {
	email := newsletterEmail()
	email.HasAttachment = true

	tests := []struct {
		name string
		cond model.Condition
		want bool
	}{
		{
			name: "contains is case-insensitive",
			cond: model.Condition{Field: model.FieldSubject, Operator: model.OperatorContains, Value: "NEWSLETTER"},
			want: true,
		},
		{
			name: "from matches against name and address",
			cond: model.Condition{Field: model.FieldFrom, Operator: model.OperatorContains, Value: "updates.example"},
			want: true,
		},
		{
			name: "to matches any recipient",
			cond: model.Condition{Field: model.FieldTo, Operator: model.OperatorContains, Value: "pat@"},
			want: true,
		},
		{
			name: "equals requires the full text",
			cond: model.Condition{Field: model.FieldSubject, Operator: model.OperatorEquals, Value: "your weekly newsletter"},
			want: true,
		},
		{
			name: "equals rejects partial text",
			cond: model.Condition{Field: model.FieldSubject, Operator: model.OperatorEquals, Value: "newsletter"},
			want: false,
		},
		{
			name: "startsWith",
			cond: model.Condition{Field: model.FieldSubject, Operator: model.OperatorStartsWith, Value: "your"},
			want: true,
		},
		{
			name: "endsWith",
			cond: model.Condition{Field: model.FieldBody, Operator: model.OperatorEndsWith, Value: "anytime."},
			want: true,
		},
		{
			name: "notContains",
			cond: model.Condition{Field: model.FieldBody, Operator: model.OperatorNotContains, Value: "invoice"},
			want: true,
		},
		{
			name: "hasAttachment true",
			cond: model.Condition{Field: model.FieldHasAttachment, Operator: model.OperatorEquals, Value: "true"},
			want: true,
		},
		{
			name: "hasAttachment false mismatches",
			cond: model.Condition{Field: model.FieldHasAttachment, Operator: model.OperatorEquals, Value: "false"},
			want: false,
		},
		{
			name: "unknown field never matches",
			cond: model.Condition{Field: "priority", Operator: model.OperatorContains, Value: "high"},
			want: false,
		},
		{
			name: "unknown operator never matches",
			cond: model.Condition{Field: model.FieldSubject, Operator: "regex", Value: ".*"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesCondition(email, tt.cond))
		})
	}
}

func TestRuleMatches(t *testing.T) {
	email := newsletterEmail()

	matching := model.Condition{Field: model.FieldSubject, Operator: model.OperatorContains, Value: "newsletter"}
	failing := model.Condition{Field: model.FieldSubject, Operator: model.OperatorContains, Value: "invoice"}

	tests := []struct {
		name string
		rule model.FilterRule
		want bool
	}{
		{
			name: "matchAll needs every condition",
			rule: model.FilterRule{Enabled: true, MatchAll: true, Conditions: []model.Condition{matching, failing}},
			want: false,
		},
		{
			name: "matchAll with all passing",
			rule: model.FilterRule{Enabled: true, MatchAll: true, Conditions: []model.Condition{matching, matching}},
			want: true,
		},
		{
			name: "matchAny needs one condition",
			rule: model.FilterRule{Enabled: true, Conditions: []model.Condition{failing, matching}},
			want: true,
		},
		{
			name: "matchAny with none passing",
			rule: model.FilterRule{Enabled: true, Conditions: []model.Condition{failing}},
			want: false,
		},
		{
			name: "disabled rule never matches",
			rule: model.FilterRule{Enabled: false, Conditions: []model.Condition{matching}},
			want: false,
		},
		{
			name: "no conditions never matches",
			rule: model.FilterRule{Enabled: true, MatchAll: true},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RuleMatches(email, tt.rule))
		})
	}
}

func TestApplyRuleRunsActionsInOrder(t *testing.T) {
	email := newsletterEmail()
	rule := model.FilterRule{
		Enabled: true,
		Actions: []model.Action{
			{Type: model.ActionArchive},
			{Type: model.ActionMoveTo, Value: "receipts"},
			{Type: model.ActionMarkAsRead},
			{Type: model.ActionMarkAsStarred},
			{Type: model.ActionAddLabel, Value: "l1"},
			{Type: model.ActionAddLabel, Value: "l1"},
		},
	}

	got := ApplyRule(email, rule)

	// Later folder action wins over the earlier archive.
	assert.Equal(t, "receipts", got.Folder)
	assert.True(t, got.IsRead)
	assert.True(t, got.IsStarred)
	assert.Equal(t, []string{"l1"}, got.Labels)

	// Input message is untouched.
	assert.Equal(t, model.FolderInbox, email.Folder)
	assert.False(t, email.IsRead)
	assert.Empty(t, email.Labels)
}

func TestApplyRuleDeleteMovesToTrash(t *testing.T) {
	got := ApplyRule(newsletterEmail(), model.FilterRule{
		Actions: []model.Action{{Type: model.ActionDelete}},
	})
	assert.Equal(t, model.FolderTrash, got.Folder)
}

func TestApplyRuleIgnoresEmptyActionValues(t *testing.T) {
	got := ApplyRule(newsletterEmail(), model.FilterRule{
		Actions: []model.Action{
			{Type: model.ActionMoveTo, Value: ""},
			{Type: model.ActionAddLabel, Value: ""},
		},
	})
	assert.Equal(t, model.FolderInbox, got.Folder)
	assert.Empty(t, got.Labels)
}

func TestApplyRulesAllMatchingRulesContribute(t *testing.T) {
	email := newsletterEmail()
	rules := []model.FilterRule{
		{
			Name: "label newsletters", Enabled: true,
			Conditions: []model.Condition{{Field: model.FieldSubject, Operator: model.OperatorContains, Value: "newsletter"}},
			Actions:    []model.Action{{Type: model.ActionAddLabel, Value: "news"}},
		},
		{
			Name: "archive digests", Enabled: true,
			Conditions: []model.Condition{{Field: model.FieldFrom, Operator: model.OperatorContains, Value: "digest"}},
			Actions:    []model.Action{{Type: model.ActionArchive}},
		},
	}

	got := ApplyRules(email, rules)
	assert.Equal(t, []string{"news"}, got.Labels)
	assert.Equal(t, model.FolderArchive, got.Folder)

	names := MatchingRuleNames(email, rules)
	assert.Equal(t, []string{"label newsletters", "archive digests"}, names)
}

func TestIsBlockedIsExactAndCaseSensitive(t *testing.T) {
	blocked := []model.BlockedAddress{{ID: "b1", Email: "spam@bad.example.com"}}

	spam := newsletterEmail()
	spam.From.Email = "spam@bad.example.com"
	assert.True(t, IsBlocked(spam, blocked))

	upper := spam
	upper.From.Email = "SPAM@bad.example.com"
	assert.False(t, IsBlocked(upper, blocked))

	named := spam
	named.From.Name = "spam@bad.example.com"
	named.From.Email = "other@ok.example.com"
	assert.False(t, IsBlocked(named, blocked))
}

func TestApplyExcludesBlockedSendersBeforeRules(t *testing.T) {
	spam := newsletterEmail()
	spam.ID = "spam"
	spam.From.Email = "spam@bad.example.com"

	keep := newsletterEmail()
	keep.ID = "keep"

	rules := []model.FilterRule{{
		Enabled:    true,
		Conditions: []model.Condition{{Field: model.FieldSubject, Operator: model.OperatorContains, Value: "newsletter"}},
		Actions:    []model.Action{{Type: model.ActionArchive}},
	}}
	blocked := []model.BlockedAddress{{Email: "spam@bad.example.com"}}

	got := Apply([]model.Email{spam, keep}, rules, blocked)

	assert.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].ID)
	assert.Equal(t, model.FolderArchive, got[0].Folder)
}

func TestApplyWithNoRulesOrBlocklistIsIdentity(t *testing.T) {
	in := []model.Email{newsletterEmail()}
	got := Apply(in, nil, nil)
	assert.Equal(t, in, got)
}
