package model

import "time"

// System folder identifiers. Custom folders use their server-assigned ID.
const (
	FolderInbox   = "inbox"
	FolderDrafts  = "drafts"
	FolderSent    = "sent"
	FolderSpam    = "spam"
	FolderTrash   = "trash"
	FolderArchive = "archive"
	FolderStarred = "starred"
)

// SystemFolders lists every built-in folder in sidebar order.
var SystemFolders = []string{
	FolderInbox, FolderDrafts, FolderSent,
	FolderSpam, FolderTrash, FolderArchive, FolderStarred,
}

// IsSystemFolder reports whether name refers to a built-in folder
// rather than a user-created one.
func IsSystemFolder(name string) bool {
	for _, f := range SystemFolders {
		if f == name {
			return true
		}
	}
	return false
}

// EmailAddress is a display name plus address pair as it appears in
// message headers.
type EmailAddress struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Attachment describes a file attached to an email. URL is empty until
// the server has stored the content.
type Attachment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
	URL      string `json:"url,omitempty"`
}

// Email is a single message as held by the remote service. The ID is
// immutable and unique within a session; every mutation goes through a
// repository call.
type Email struct {
	ID              string         `json:"id"`
	AccountID       string         `json:"accountId"`
	From            EmailAddress   `json:"from"`
	To              []EmailAddress `json:"to"`
	CC              []EmailAddress `json:"cc,omitempty"`
	BCC             []EmailAddress `json:"bcc,omitempty"`
	Subject         string         `json:"subject"`
	Preview         string         `json:"preview"`
	Body            string         `json:"body"`
	Date            time.Time      `json:"date"`
	IsRead          bool           `json:"isRead"`
	IsStarred       bool           `json:"isStarred"`
	HasAttachment   bool           `json:"hasAttachment"`
	Attachments     []Attachment   `json:"attachments,omitempty"`
	Folder          string         `json:"folder"`
	Labels          []string       `json:"labels,omitempty"`
	ThreadID        string         `json:"threadId,omitempty"`
	ReplyToID       string         `json:"replyToId,omitempty"`
	ForwardedFromID string         `json:"forwardedFromId,omitempty"`
	IsDraft         bool           `json:"isDraft"`
	ScheduledSendAt *time.Time     `json:"scheduledSendAt,omitempty"`
}

// EmailCreateInput holds the caller-supplied fields for sending or
// drafting a message.
type EmailCreateInput struct {
	AccountID       string         `json:"accountId"`
	To              []EmailAddress `json:"to"`
	CC              []EmailAddress `json:"cc,omitempty"`
	BCC             []EmailAddress `json:"bcc,omitempty"`
	Subject         string         `json:"subject"`
	Body            string         `json:"body"`
	ReplyToID       string         `json:"replyToId,omitempty"`
	ForwardedFromID string         `json:"forwardedFromId,omitempty"`
	ScheduledSendAt *time.Time     `json:"scheduledSendAt,omitempty"`
}

// EmailPatch is a partial update. Nil fields are omitted from the
// outgoing payload entirely, so repeated patches compose per field.
type EmailPatch struct {
	IsRead    *bool    `json:"isRead,omitempty"`
	IsStarred *bool    `json:"isStarred,omitempty"`
	Folder    *string  `json:"folder,omitempty"`
	Labels    []string `json:"labels,omitempty"`
}

// EmailQuery describes a server-side message search. Zero-valued
// fields are not sent.
type EmailQuery struct {
	Text          string
	Folder        string
	AccountID     string
	ThreadID      string
	IsRead        *bool
	IsStarred     *bool
	HasAttachment *bool
	Labels        []string
}
