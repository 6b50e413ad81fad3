// Package remote implements every repository contract against the
// authenticated request client. Wire payloads are decoded into local
// DTOs and mapped to domain entities; timestamps are re-parsed from
// text on every read.
package remote

import (
	"strconv"
	"time"

	"github.com/mchen04/penguin-mail/internal/api"
	"github.com/mchen04/penguin-mail/internal/repository"
)

// New builds the full network-backed repository set over one client.
func New(client *api.Client) repository.Set {
	return repository.Set{
		Emails:        &Emails{client: client},
		Folders:       &Folders{client: client},
		Labels:        &Labels{client: client},
		Accounts:      &Accounts{client: client},
		Contacts:      &Contacts{client: client},
		ContactGroups: &ContactGroups{client: client},
		Settings:      &Settings{client: client},
	}
}

// timeLayouts are tried in order when parsing wire timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// parseTime converts wire timestamp text into a time value. Empty or
// unparseable text yields the zero time.
func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseTimePtr is parseTime for nullable wire fields.
func parseTimePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t := parseTime(*s)
	return &t
}

// itoa keeps query building terse.
func itoa(n int) string { return strconv.Itoa(n) }
