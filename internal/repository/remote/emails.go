package remote

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/mchen04/penguin-mail/internal/api"
	"github.com/mchen04/penguin-mail/internal/model"
	"github.com/mchen04/penguin-mail/internal/repository"
)

// Emails is the network-backed message repository.
type Emails struct {
	client *api.Client
}

// emailWire is the message payload as the server sends it. The sender
// arrives as either "from_" or "from" depending on the endpoint.
type emailWire struct {
	ID              string               `json:"id"`
	AccountID       string               `json:"accountId"`
	FromUnderscore  *model.EmailAddress  `json:"from_"`
	From            *model.EmailAddress  `json:"from"`
	To              []model.EmailAddress `json:"to"`
	CC              []model.EmailAddress `json:"cc"`
	BCC             []model.EmailAddress `json:"bcc"`
	Subject         string               `json:"subject"`
	Preview         string               `json:"preview"`
	Body            string               `json:"body"`
	Date            string               `json:"date"`
	IsRead          bool                 `json:"isRead"`
	IsStarred       bool                 `json:"isStarred"`
	HasAttachment   bool                 `json:"hasAttachment"`
	Attachments     []model.Attachment   `json:"attachments"`
	Folder          string               `json:"folder"`
	Labels          []string             `json:"labels"`
	ThreadID        *string              `json:"threadId"`
	ReplyToID       *string              `json:"replyToId"`
	ForwardedFromID *string              `json:"forwardedFromId"`
	IsDraft         bool                 `json:"isDraft"`
	ScheduledSendAt *string              `json:"scheduledSendAt"`
}

type emailPageWire struct {
	Data       []emailWire `json:"data"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	Total      int         `json:"total"`
	TotalPages int         `json:"totalPages"`
}

func toEmail(w emailWire) model.Email {
	from := model.EmailAddress{}
	if w.FromUnderscore != nil {
		from = *w.FromUnderscore
	} else if w.From != nil {
		from = *w.From
	}

	threadID := w.ID
	if w.ThreadID != nil && *w.ThreadID != "" {
		threadID = *w.ThreadID
	}

	e := model.Email{
		ID:              w.ID,
		AccountID:       w.AccountID,
		From:            from,
		To:              w.To,
		CC:              w.CC,
		BCC:             w.BCC,
		Subject:         w.Subject,
		Preview:         w.Preview,
		Body:            w.Body,
		Date:            parseTime(w.Date),
		IsRead:          w.IsRead,
		IsStarred:       w.IsStarred,
		HasAttachment:   w.HasAttachment,
		Attachments:     w.Attachments,
		Folder:          w.Folder,
		Labels:          w.Labels,
		ThreadID:        threadID,
		IsDraft:         w.IsDraft,
		ScheduledSendAt: parseTimePtr(w.ScheduledSendAt),
	}
	if w.ReplyToID != nil {
		e.ReplyToID = *w.ReplyToID
	}
	if w.ForwardedFromID != nil {
		e.ForwardedFromID = *w.ForwardedFromID
	}
	return e
}

func toEmailPage(w emailPageWire) model.Page[model.Email] {
	out := model.Page[model.Email]{
		Data:       make([]model.Email, 0, len(w.Data)),
		Page:       w.Page,
		PageSize:   w.PageSize,
		Total:      w.Total,
		TotalPages: w.TotalPages,
	}
	for _, e := range w.Data {
		out.Data = append(out.Data, toEmail(e))
	}
	return out
}

func pageQuery(q url.Values, page model.PageRequest) url.Values {
	if page.Page > 0 {
		q.Set("page", itoa(page.Page))
	}
	if page.PageSize > 0 {
		q.Set("pageSize", itoa(page.PageSize))
	}
	return q
}

func (r *Emails) GetByID(ctx context.Context, id string) (*model.Email, error) {
	var w emailWire
	err := r.client.Get(ctx, "/emails/"+id, nil, &w)
	if api.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e := toEmail(w)
	return &e, nil
}

func (r *Emails) ListByFolder(ctx context.Context, folder, accountID string, page model.PageRequest) (model.Page[model.Email], error) {
	q := url.Values{}
	q.Set("folder", folder)
	if accountID != "" {
		q.Set("accountId", accountID)
	}
	pageQuery(q, page)

	var w emailPageWire
	if err := r.client.Get(ctx, "/emails/", q, &w); err != nil {
		return model.Page[model.Email]{}, err
	}
	return toEmailPage(w), nil
}

func (r *Emails) ListByThread(ctx context.Context, threadID string) ([]model.Email, error) {
	q := url.Values{}
	q.Set("threadId", threadID)
	q.Set("pageSize", "200")

	var w emailPageWire
	if err := r.client.Get(ctx, "/emails/", q, &w); err != nil {
		return nil, err
	}
	return toEmailPage(w).Data, nil
}

func (r *Emails) Search(ctx context.Context, query model.EmailQuery, page model.PageRequest) (model.Page[model.Email], error) {
	q := url.Values{}
	if query.Text != "" {
		q.Set("search", query.Text)
	}
	if query.Folder != "" {
		q.Set("folder", query.Folder)
	}
	if query.AccountID != "" {
		q.Set("accountId", query.AccountID)
	}
	if query.ThreadID != "" {
		q.Set("threadId", query.ThreadID)
	}
	if query.IsRead != nil {
		q.Set("isRead", strconv.FormatBool(*query.IsRead))
	}
	if query.IsStarred != nil {
		q.Set("isStarred", strconv.FormatBool(*query.IsStarred))
	}
	if query.HasAttachment != nil {
		q.Set("hasAttachment", strconv.FormatBool(*query.HasAttachment))
	}
	if len(query.Labels) > 0 {
		q.Set("labelIds", strings.Join(query.Labels, ","))
	}
	pageQuery(q, page)

	var w emailPageWire
	if err := r.client.Get(ctx, "/emails/", q, &w); err != nil {
		return model.Page[model.Email]{}, err
	}
	return toEmailPage(w), nil
}

// UnreadCount asks for a single-message page and trusts the
// server-side total.
func (r *Emails) UnreadCount(ctx context.Context, folder, accountID string) (int, error) {
	q := url.Values{}
	q.Set("folder", folder)
	if accountID != "" {
		q.Set("accountId", accountID)
	}
	q.Set("isRead", "false")
	q.Set("pageSize", "1")

	var w emailPageWire
	if err := r.client.Get(ctx, "/emails/", q, &w); err != nil {
		return 0, err
	}
	return w.Total, nil
}

func (r *Emails) Create(ctx context.Context, input model.EmailCreateInput) repository.Result[model.Email] {
	var w emailWire
	if err := r.client.Post(ctx, "/emails/", input, &w); err != nil {
		return repository.Fail[model.Email](err)
	}
	return repository.OK(toEmail(w))
}

func (r *Emails) SaveDraft(ctx context.Context, input model.EmailCreateInput) repository.Result[model.Email] {
	var w emailWire
	if err := r.client.Post(ctx, "/emails/draft", input, &w); err != nil {
		return repository.Fail[model.Email](err)
	}
	return repository.OK(toEmail(w))
}

func (r *Emails) Update(ctx context.Context, id string, patch model.EmailPatch) repository.Result[model.Email] {
	var w emailWire
	if err := r.client.Patch(ctx, "/emails/"+id, patch, &w); err != nil {
		return repository.Fail[model.Email](err)
	}
	return repository.OK(toEmail(w))
}

func (r *Emails) Delete(ctx context.Context, id string) repository.Status {
	if err := r.client.Delete(ctx, "/emails/"+id, nil); err != nil {
		return repository.Failed(err)
	}
	return repository.Done()
}

// bulkRequest is the shared payload of POST /emails/bulk.
type bulkRequest struct {
	IDs       []string `json:"ids"`
	Operation string   `json:"operation"`
	Folder    string   `json:"folder,omitempty"`
	LabelIDs  []string `json:"labelIds,omitempty"`
}

func (r *Emails) bulk(ctx context.Context, req bulkRequest) repository.Status {
	if err := r.client.Post(ctx, "/emails/bulk", req, nil); err != nil {
		return repository.Failed(err)
	}
	return repository.Done()
}

func (r *Emails) MarkRead(ctx context.Context, ids []string) repository.Status {
	return r.bulk(ctx, bulkRequest{IDs: ids, Operation: "markRead"})
}

func (r *Emails) MarkUnread(ctx context.Context, ids []string) repository.Status {
	return r.bulk(ctx, bulkRequest{IDs: ids, Operation: "markUnread"})
}

func (r *Emails) Star(ctx context.Context, ids []string) repository.Status {
	return r.bulk(ctx, bulkRequest{IDs: ids, Operation: "star"})
}

func (r *Emails) Unstar(ctx context.Context, ids []string) repository.Status {
	return r.bulk(ctx, bulkRequest{IDs: ids, Operation: "unstar"})
}

func (r *Emails) Move(ctx context.Context, ids []string, folder string) repository.Status {
	return r.bulk(ctx, bulkRequest{IDs: ids, Operation: "move", Folder: folder})
}

func (r *Emails) Archive(ctx context.Context, ids []string) repository.Status {
	return r.bulk(ctx, bulkRequest{IDs: ids, Operation: "archive"})
}

func (r *Emails) AddLabels(ctx context.Context, ids, labelIDs []string) repository.Status {
	return r.bulk(ctx, bulkRequest{IDs: ids, Operation: "addLabel", LabelIDs: labelIDs})
}

func (r *Emails) RemoveLabels(ctx context.Context, ids, labelIDs []string) repository.Status {
	return r.bulk(ctx, bulkRequest{IDs: ids, Operation: "removeLabel", LabelIDs: labelIDs})
}

func (r *Emails) DeleteMany(ctx context.Context, ids []string) repository.Status {
	return r.bulk(ctx, bulkRequest{IDs: ids, Operation: "delete"})
}

func (r *Emails) DeletePermanently(ctx context.Context, ids []string) repository.Status {
	return r.bulk(ctx, bulkRequest{IDs: ids, Operation: "deletePermanent"})
}
