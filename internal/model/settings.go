package model

import "time"

// Fields a filter condition can inspect.
const (
	FieldFrom          = "from"
	FieldTo            = "to"
	FieldSubject       = "subject"
	FieldBody          = "body"
	FieldHasAttachment = "hasAttachment"
)

// Operators a filter condition can apply.
const (
	OperatorContains    = "contains"
	OperatorEquals      = "equals"
	OperatorStartsWith  = "startsWith"
	OperatorEndsWith    = "endsWith"
	OperatorNotContains = "notContains"
)

// Action types a filter rule can trigger.
const (
	ActionMoveTo        = "moveTo"
	ActionAddLabel      = "addLabel"
	ActionMarkAsRead    = "markAsRead"
	ActionMarkAsStarred = "markAsStarred"
	ActionDelete        = "delete"
	ActionArchive       = "archive"
)

// Condition is a single predicate over one message field.
type Condition struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// Action is one effect applied to a matching message. Value is a
// folder or label ID for moveTo/addLabel and ignored otherwise.
type Action struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// FilterRule is a user-defined automation entry. A rule with no
// conditions never matches anything.
type FilterRule struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Enabled    bool        `json:"enabled"`
	MatchAll   bool        `json:"matchAll"`
	Conditions []Condition `json:"conditions"`
	Actions    []Action    `json:"actions"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// FilterRulePatch is a partial filter-rule update.
type FilterRulePatch struct {
	Name       *string     `json:"name,omitempty"`
	Enabled    *bool       `json:"enabled,omitempty"`
	MatchAll   *bool       `json:"matchAll,omitempty"`
	Conditions []Condition `json:"conditions,omitempty"`
	Actions    []Action    `json:"actions,omitempty"`
}

// BlockedAddress is a sender address whose messages are always
// excluded, regardless of filter rules.
type BlockedAddress struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Signature is a reusable block appended to outgoing messages.
type Signature struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	IsDefault bool   `json:"isDefault"`
}

// AppearanceSettings holds theme preferences.
type AppearanceSettings struct {
	Theme   string `json:"theme"`
	Density string `json:"density"`
}

// InboxSettings holds reading and reply behavior.
type InboxSettings struct {
	DefaultReplyBehavior string `json:"defaultReplyBehavior"`
	ConversationView     bool   `json:"conversationView"`
}

// VacationResponder holds the out-of-office auto-reply configuration.
type VacationResponder struct {
	Enabled   bool       `json:"enabled"`
	Subject   string     `json:"subject"`
	Message   string     `json:"message"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

// Settings is the per-user settings document. Filter rules and the
// blocklist live here and are read-only to the filter engine.
type Settings struct {
	Appearance       AppearanceSettings `json:"appearance"`
	Inbox            InboxSettings      `json:"inboxBehavior"`
	Signatures       []Signature        `json:"signatures"`
	Vacation         VacationResponder  `json:"vacationResponder"`
	Filters          []FilterRule       `json:"filters"`
	BlockedAddresses []BlockedAddress   `json:"blockedAddresses"`
}

// SettingsPatch is a partial settings update; nested sections are
// replaced wholesale when present.
type SettingsPatch struct {
	Appearance *AppearanceSettings `json:"appearance,omitempty"`
	Inbox      *InboxSettings      `json:"inboxBehavior,omitempty"`
	Vacation   *VacationResponder  `json:"vacationResponder,omitempty"`
}
