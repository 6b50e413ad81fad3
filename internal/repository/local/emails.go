package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mchen04/penguin-mail/internal/model"
	"github.com/mchen04/penguin-mail/internal/repository"
)

// Emails is the SQLite-backed message repository.
type Emails struct {
	db *sqlx.DB
}

type emailRow struct {
	ID              string `db:"id"`
	AccountID       string `db:"account_id"`
	FromName        string `db:"from_name"`
	FromEmail       string `db:"from_email"`
	ToJSON          string `db:"to_json"`
	CCJSON          string `db:"cc_json"`
	BCCJSON         string `db:"bcc_json"`
	Subject         string `db:"subject"`
	Preview         string `db:"preview"`
	Body            string `db:"body"`
	Date            string `db:"date"`
	IsRead          int    `db:"is_read"`
	IsStarred       int    `db:"is_starred"`
	HasAttachment   int    `db:"has_attachment"`
	AttachmentsJSON string `db:"attachments_json"`
	Folder          string `db:"folder"`
	LabelsJSON      string `db:"labels_json"`
	ThreadID        string `db:"thread_id"`
	ReplyToID       string `db:"reply_to_id"`
	ForwardedFromID string `db:"forwarded_from_id"`
	IsDraft         int    `db:"is_draft"`
	ScheduledSendAt string `db:"scheduled_send_at"`
}

func (r emailRow) toModel() (model.Email, error) {
	e := model.Email{
		ID:              r.ID,
		AccountID:       r.AccountID,
		From:            model.EmailAddress{Name: r.FromName, Email: r.FromEmail},
		Subject:         r.Subject,
		Preview:         r.Preview,
		Body:            r.Body,
		Date:            readTime(r.Date),
		IsRead:          r.IsRead != 0,
		IsStarred:       r.IsStarred != 0,
		HasAttachment:   r.HasAttachment != 0,
		Folder:          r.Folder,
		ThreadID:        r.ThreadID,
		ReplyToID:       r.ReplyToID,
		ForwardedFromID: r.ForwardedFromID,
		IsDraft:         r.IsDraft != 0,
	}
	if r.ScheduledSendAt != "" {
		t := readTime(r.ScheduledSendAt)
		e.ScheduledSendAt = &t
	}
	for _, col := range []struct {
		raw    string
		target any
	}{
		{r.ToJSON, &e.To},
		{r.CCJSON, &e.CC},
		{r.BCCJSON, &e.BCC},
		{r.AttachmentsJSON, &e.Attachments},
		{r.LabelsJSON, &e.Labels},
	} {
		if err := json.Unmarshal([]byte(col.raw), col.target); err != nil {
			return model.Email{}, fmt.Errorf("decoding email %s: %w", r.ID, err)
		}
	}
	return e, nil
}

func toEmailRow(e model.Email) (emailRow, error) {
	toJSON, err := json.Marshal(orEmpty(e.To))
	if err != nil {
		return emailRow{}, err
	}
	ccJSON, err := json.Marshal(orEmpty(e.CC))
	if err != nil {
		return emailRow{}, err
	}
	bccJSON, err := json.Marshal(orEmpty(e.BCC))
	if err != nil {
		return emailRow{}, err
	}
	attJSON, err := json.Marshal(orEmptyAttachments(e.Attachments))
	if err != nil {
		return emailRow{}, err
	}
	labelsJSON, err := json.Marshal(orEmptyStrings(e.Labels))
	if err != nil {
		return emailRow{}, err
	}

	row := emailRow{
		ID:              e.ID,
		AccountID:       e.AccountID,
		FromName:        e.From.Name,
		FromEmail:       e.From.Email,
		ToJSON:          string(toJSON),
		CCJSON:          string(ccJSON),
		BCCJSON:         string(bccJSON),
		Subject:         e.Subject,
		Preview:         e.Preview,
		Body:            e.Body,
		Date:            formatTime(e.Date),
		IsRead:          boolToInt(e.IsRead),
		IsStarred:       boolToInt(e.IsStarred),
		HasAttachment:   boolToInt(e.HasAttachment),
		AttachmentsJSON: string(attJSON),
		Folder:          e.Folder,
		LabelsJSON:      string(labelsJSON),
		ThreadID:        e.ThreadID,
		ReplyToID:       e.ReplyToID,
		ForwardedFromID: e.ForwardedFromID,
		IsDraft:         boolToInt(e.IsDraft),
	}
	if e.ScheduledSendAt != nil {
		row.ScheduledSendAt = formatTime(*e.ScheduledSendAt)
	}
	return row, nil
}

func orEmpty(a []model.EmailAddress) []model.EmailAddress {
	if a == nil {
		return []model.EmailAddress{}
	}
	return a
}

func orEmptyAttachments(a []model.Attachment) []model.Attachment {
	if a == nil {
		return []model.Attachment{}
	}
	return a
}

func orEmptyStrings(a []string) []string {
	if a == nil {
		return []string{}
	}
	return a
}

const insertEmailQuery = `
	INSERT OR REPLACE INTO emails (
		id, account_id, from_name, from_email,
		to_json, cc_json, bcc_json,
		subject, preview, body, date,
		is_read, is_starred, has_attachment, attachments_json,
		folder, labels_json, thread_id,
		reply_to_id, forwarded_from_id, is_draft, scheduled_send_at
	) VALUES (
		:id, :account_id, :from_name, :from_email,
		:to_json, :cc_json, :bcc_json,
		:subject, :preview, :body, :date,
		:is_read, :is_starred, :has_attachment, :attachments_json,
		:folder, :labels_json, :thread_id,
		:reply_to_id, :forwarded_from_id, :is_draft, :scheduled_send_at
	)`

// Put inserts or replaces messages wholesale. It is how fixtures and
// synced snapshots land in the simulated store.
func (r *Emails) Put(ctx context.Context, emails ...model.Email) error {
	for _, e := range emails {
		row, err := toEmailRow(e)
		if err != nil {
			return fmt.Errorf("encoding email %s: %w", e.ID, err)
		}
		if _, err := r.db.NamedExecContext(ctx, insertEmailQuery, row); err != nil {
			return fmt.Errorf("storing email %s: %w", e.ID, err)
		}
	}
	return nil
}

func (r *Emails) GetByID(ctx context.Context, id string) (*model.Email, error) {
	var row emailRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM emails WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying email %s: %w", id, err)
	}
	e, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Emails) ListByFolder(ctx context.Context, folder, accountID string, page model.PageRequest) (model.Page[model.Email], error) {
	q := model.EmailQuery{Folder: folder, AccountID: accountID}
	return r.Search(ctx, q, page)
}

func (r *Emails) ListByThread(ctx context.Context, threadID string) ([]model.Email, error) {
	p, err := r.Search(ctx, model.EmailQuery{ThreadID: threadID}, model.PageRequest{PageSize: 200})
	if err != nil {
		return nil, err
	}
	return p.Data, nil
}

func (r *Emails) Search(ctx context.Context, q model.EmailQuery, page model.PageRequest) (model.Page[model.Email], error) {
	var conditions []string
	var args []any

	if q.Folder != "" {
		conditions = append(conditions, "folder = ?")
		args = append(args, q.Folder)
	}
	if q.AccountID != "" {
		conditions = append(conditions, "account_id = ?")
		args = append(args, q.AccountID)
	}
	if q.ThreadID != "" {
		conditions = append(conditions, "thread_id = ?")
		args = append(args, q.ThreadID)
	}
	if q.Text != "" {
		conditions = append(conditions, "(subject LIKE ? OR body LIKE ? OR from_name LIKE ? OR from_email LIKE ?)")
		like := "%" + q.Text + "%"
		args = append(args, like, like, like, like)
	}
	if q.IsRead != nil {
		conditions = append(conditions, "is_read = ?")
		args = append(args, boolToInt(*q.IsRead))
	}
	if q.IsStarred != nil {
		conditions = append(conditions, "is_starred = ?")
		args = append(args, boolToInt(*q.IsStarred))
	}
	if q.HasAttachment != nil {
		conditions = append(conditions, "has_attachment = ?")
		args = append(args, boolToInt(*q.HasAttachment))
	}
	for _, label := range q.Labels {
		conditions = append(conditions, "labels_json LIKE ?")
		args = append(args, "%"+`"`+label+`"`+"%")
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM emails"+where, args...); err != nil {
		return model.Page[model.Email]{}, fmt.Errorf("counting emails: %w", err)
	}

	pageNum := page.Page
	if pageNum < 1 {
		pageNum = 1
	}
	pageSize := page.PageSize
	if pageSize < 1 {
		pageSize = 50
	}

	query := "SELECT * FROM emails" + where +
		fmt.Sprintf(" ORDER BY date DESC LIMIT %d OFFSET %d", pageSize, (pageNum-1)*pageSize)

	var rows []emailRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return model.Page[model.Email]{}, fmt.Errorf("querying emails: %w", err)
	}

	out := model.Page[model.Email]{
		Data:       make([]model.Email, 0, len(rows)),
		Page:       pageNum,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: (total + pageSize - 1) / pageSize,
	}
	for _, row := range rows {
		e, err := row.toModel()
		if err != nil {
			return model.Page[model.Email]{}, err
		}
		out.Data = append(out.Data, e)
	}
	return out, nil
}

func (r *Emails) UnreadCount(ctx context.Context, folder, accountID string) (int, error) {
	query := "SELECT COUNT(*) FROM emails WHERE folder = ? AND is_read = 0"
	args := []any{folder}
	if accountID != "" {
		query += " AND account_id = ?"
		args = append(args, accountID)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("counting unread: %w", err)
	}
	return count, nil
}

func (r *Emails) Create(ctx context.Context, input model.EmailCreateInput) repository.Result[model.Email] {
	return r.insert(ctx, input, model.FolderSent, false)
}

func (r *Emails) SaveDraft(ctx context.Context, input model.EmailCreateInput) repository.Result[model.Email] {
	return r.insert(ctx, input, model.FolderDrafts, true)
}

func (r *Emails) insert(ctx context.Context, input model.EmailCreateInput, folder string, draft bool) repository.Result[model.Email] {
	// The store fabricates the identifier itself; it stays marked as
	// pending because no server ever confirms it.
	e := model.Email{
		ID:              model.PendingID().String(),
		AccountID:       input.AccountID,
		To:              input.To,
		CC:              input.CC,
		BCC:             input.BCC,
		Subject:         input.Subject,
		Body:            input.Body,
		Date:            time.Now(),
		IsRead:          true,
		Folder:          folder,
		ReplyToID:       input.ReplyToID,
		ForwardedFromID: input.ForwardedFromID,
		IsDraft:         draft,
		ScheduledSendAt: input.ScheduledSendAt,
	}
	e.ThreadID = e.ID
	if input.ReplyToID != "" {
		if parent, err := r.GetByID(ctx, input.ReplyToID); err == nil && parent != nil {
			e.ThreadID = parent.ThreadID
		}
	}

	if err := r.Put(ctx, e); err != nil {
		return repository.Fail[model.Email](err)
	}
	return repository.OK(e)
}

func (r *Emails) Update(ctx context.Context, id string, patch model.EmailPatch) repository.Result[model.Email] {
	var sets []string
	var args []any
	if patch.IsRead != nil {
		sets = append(sets, "is_read = ?")
		args = append(args, boolToInt(*patch.IsRead))
	}
	if patch.IsStarred != nil {
		sets = append(sets, "is_starred = ?")
		args = append(args, boolToInt(*patch.IsStarred))
	}
	if patch.Folder != nil {
		sets = append(sets, "folder = ?")
		args = append(args, *patch.Folder)
	}
	if patch.Labels != nil {
		labelsJSON, err := json.Marshal(patch.Labels)
		if err != nil {
			return repository.Fail[model.Email](err)
		}
		sets = append(sets, "labels_json = ?")
		args = append(args, string(labelsJSON))
	}

	if len(sets) > 0 {
		args = append(args, id)
		query := "UPDATE emails SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return repository.Fail[model.Email](fmt.Errorf("updating email %s: %w", id, err))
		}
	}

	e, err := r.GetByID(ctx, id)
	if err != nil {
		return repository.Fail[model.Email](err)
	}
	if e == nil {
		return repository.Fail[model.Email](fmt.Errorf("email %s not found", id))
	}
	return repository.OK(*e)
}

func (r *Emails) Delete(ctx context.Context, id string) repository.Status {
	return r.Move(ctx, []string{id}, model.FolderTrash)
}

func (r *Emails) DeletePermanently(ctx context.Context, ids []string) repository.Status {
	return r.execIn(ctx, "DELETE FROM emails WHERE id IN (?)", ids)
}

func (r *Emails) MarkRead(ctx context.Context, ids []string) repository.Status {
	return r.execIn(ctx, "UPDATE emails SET is_read = 1 WHERE id IN (?)", ids)
}

func (r *Emails) MarkUnread(ctx context.Context, ids []string) repository.Status {
	return r.execIn(ctx, "UPDATE emails SET is_read = 0 WHERE id IN (?)", ids)
}

func (r *Emails) Star(ctx context.Context, ids []string) repository.Status {
	return r.execIn(ctx, "UPDATE emails SET is_starred = 1 WHERE id IN (?)", ids)
}

func (r *Emails) Unstar(ctx context.Context, ids []string) repository.Status {
	return r.execIn(ctx, "UPDATE emails SET is_starred = 0 WHERE id IN (?)", ids)
}

func (r *Emails) Move(ctx context.Context, ids []string, folder string) repository.Status {
	if len(ids) == 0 {
		return repository.Done()
	}
	query, args, err := sqlx.In("UPDATE emails SET folder = ? WHERE id IN (?)", folder, ids)
	if err != nil {
		return repository.Failed(err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return repository.Failed(fmt.Errorf("moving emails: %w", err))
	}
	return repository.Done()
}

func (r *Emails) Archive(ctx context.Context, ids []string) repository.Status {
	return r.Move(ctx, ids, model.FolderArchive)
}

func (r *Emails) AddLabels(ctx context.Context, ids, labelIDs []string) repository.Status {
	return r.editLabels(ctx, ids, labelIDs, true)
}

func (r *Emails) RemoveLabels(ctx context.Context, ids, labelIDs []string) repository.Status {
	return r.editLabels(ctx, ids, labelIDs, false)
}

func (r *Emails) DeleteMany(ctx context.Context, ids []string) repository.Status {
	return r.Move(ctx, ids, model.FolderTrash)
}

func (r *Emails) execIn(ctx context.Context, query string, ids []string) repository.Status {
	if len(ids) == 0 {
		return repository.Done()
	}
	expanded, args, err := sqlx.In(query, ids)
	if err != nil {
		return repository.Failed(err)
	}
	if _, err := r.db.ExecContext(ctx, expanded, args...); err != nil {
		return repository.Failed(fmt.Errorf("bulk email update: %w", err))
	}
	return repository.Done()
}

// editLabels rewrites the labels list per message; label math on a
// JSON column has to round-trip through Go.
func (r *Emails) editLabels(ctx context.Context, ids, labelIDs []string, add bool) repository.Status {
	for _, id := range ids {
		e, err := r.GetByID(ctx, id)
		if err != nil {
			return repository.Failed(err)
		}
		if e == nil {
			continue
		}

		var next []string
		if add {
			next = e.Labels
			for _, label := range labelIDs {
				if !containsString(next, label) {
					next = append(next, label)
				}
			}
		} else {
			for _, label := range e.Labels {
				if !containsString(labelIDs, label) {
					next = append(next, label)
				}
			}
		}

		labelsJSON, err := json.Marshal(orEmptyStrings(next))
		if err != nil {
			return repository.Failed(err)
		}
		if _, err := r.db.ExecContext(ctx,
			"UPDATE emails SET labels_json = ? WHERE id = ?", string(labelsJSON), id,
		); err != nil {
			return repository.Failed(fmt.Errorf("updating labels for %s: %w", id, err))
		}
	}
	return repository.Done()
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
