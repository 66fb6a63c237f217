package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crucial707/job-board/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type JobPostRepo struct {
	DB *sql.DB
}

func NewJobPostRepo(db *sql.DB) *JobPostRepo {
	return &JobPostRepo{DB: db}
}

const jobPostColumns = `id, title, location, pay, hourly_wage, date, start_time, end_time, total_hours, content, image_url, created_at, user_id`

// ListParams are the optional filters of the list query. Zero values mean
// "no filter"; all present filters combine with AND.
type ListParams struct {
	// Cursor restricts the page to rows created strictly before this time.
	Cursor *time.Time
	// Limit is the page size. The query fetches Limit+1 rows to detect a next page.
	Limit int
	// SearchKeyword matches title OR content, case-insensitive substring.
	SearchKeyword string
	// WorkTime is one of models.WorkTimeShort/Medium/Long, or empty.
	WorkTime string
	// HourlyWage is one of models.HourlyWageLow/High, or empty.
	HourlyWage string
	// ShowPast includes posts whose work date has already passed.
	ShowPast bool
}

// Shift-length boundaries for the workTime buckets and the wage split point.
const (
	shortShiftMaxHours  = 4
	mediumShiftMaxHours = 8
	hourlyWageThreshold = 10000
)

// buildListQuery composes the filtered, cursor-paginated SELECT. Kept separate
// from List so the composition logic is testable without a database.
func buildListQuery(p ListParams) (string, []interface{}) {
	var b strings.Builder
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	b.WriteString(`SELECT ` + jobPostColumns + ` FROM job_posts WHERE 1=1`)

	if !p.ShowPast {
		b.WriteString(` AND date >= CURRENT_DATE`)
	}

	if p.SearchKeyword != "" {
		ph := arg("%" + p.SearchKeyword + "%")
		b.WriteString(` AND (title ILIKE ` + ph + ` OR content ILIKE ` + ph + `)`)
	}

	switch p.WorkTime {
	case models.WorkTimeShort:
		b.WriteString(` AND total_hours <= ` + arg(shortShiftMaxHours))
	case models.WorkTimeMedium:
		b.WriteString(` AND total_hours > ` + arg(shortShiftMaxHours) + ` AND total_hours <= ` + arg(mediumShiftMaxHours))
	case models.WorkTimeLong:
		b.WriteString(` AND total_hours > ` + arg(mediumShiftMaxHours))
	}

	switch p.HourlyWage {
	case models.HourlyWageLow:
		b.WriteString(` AND hourly_wage <= ` + arg(hourlyWageThreshold))
	case models.HourlyWageHigh:
		b.WriteString(` AND hourly_wage > ` + arg(hourlyWageThreshold))
	}

	if p.Cursor != nil {
		b.WriteString(` AND created_at < ` + arg(*p.Cursor))
	}

	b.WriteString(` ORDER BY created_at DESC LIMIT ` + arg(p.Limit+1))

	return b.String(), args
}

// ========================
// LIST (CURSOR PAGINATED)
// ========================

// List returns one page of job posts plus the cursor for the next page.
// nextCursor is nil when there are no further rows.
func (r *JobPostRepo) List(ctx context.Context, p ListParams) ([]models.JobPost, *string, error) {
	query, args := buildListQuery(p)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	posts := []models.JobPost{}
	for rows.Next() {
		var jp models.JobPost
		if err := rows.Scan(
			&jp.ID, &jp.Title, &jp.Location, &jp.Pay, &jp.HourlyWage,
			&jp.Date, &jp.StartTime, &jp.EndTime, &jp.TotalHours,
			&jp.Content, &jp.ImageURL, &jp.CreatedAt, &jp.UserID,
		); err != nil {
			return nil, nil, err
		}
		posts = append(posts, jp)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var nextCursor *string
	if len(posts) > p.Limit {
		posts = posts[:p.Limit]
		c := posts[len(posts)-1].CreatedAt.UTC().Format(time.RFC3339Nano)
		nextCursor = &c
	}

	return posts, nextCursor, nil
}

// ========================
// GET BY ID (WITH OWNER)
// ========================

// GetByID returns a single post with its owner summary embedded.
func (r *JobPostRepo) GetByID(ctx context.Context, id int) (*models.JobPost, error) {
	query := `
		SELECT jp.id, jp.title, jp.location, jp.pay, jp.hourly_wage, jp.date,
		       jp.start_time, jp.end_time, jp.total_hours, jp.content,
		       jp.image_url, jp.created_at, jp.user_id,
		       u.id, u.nickname, u.image_url
		FROM job_posts jp
		JOIN users u ON u.id = jp.user_id
		WHERE jp.id = $1`

	jp := &models.JobPost{User: &models.OwnerSummary{}}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&jp.ID, &jp.Title, &jp.Location, &jp.Pay, &jp.HourlyWage,
		&jp.Date, &jp.StartTime, &jp.EndTime, &jp.TotalHours,
		&jp.Content, &jp.ImageURL, &jp.CreatedAt, &jp.UserID,
		&jp.User.ID, &jp.User.Nickname, &jp.User.ImageURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return jp, nil
}

// ========================
// CREATE
// ========================

// Create inserts a post owned by post.UserID and returns the new id.
func (r *JobPostRepo) Create(ctx context.Context, post models.JobPost) (int, error) {
	query := `
		INSERT INTO job_posts (title, location, pay, hourly_wage, date, start_time, end_time, total_hours, content, image_url, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	var id int
	err := r.DB.QueryRowContext(ctx, query,
		post.Title, post.Location, post.Pay, post.HourlyWage, post.Date,
		post.StartTime, post.EndTime, post.TotalHours, post.Content,
		post.ImageURL, post.UserID,
	).Scan(&id)
	return id, err
}

// JobPostUpdate holds the optional fields of a PATCH. Nil means "leave as is".
type JobPostUpdate struct {
	Title      *string
	Location   *string
	Pay        *int
	HourlyWage *int
	Date       *time.Time
	StartTime  *string
	EndTime    *string
	TotalHours *int
	Content    *string
	ImageURL   *string
}

// ========================
// UPDATE (OWNER ONLY)
// ========================

// Update applies the non-nil fields as a single conditional statement matching
// both the post id and the owner. Zero affected rows means the post is missing
// or owned by someone else; both come back as ErrForbidden.
func (r *JobPostRepo) Update(ctx context.Context, id, ownerID int, upd JobPostUpdate) (int64, error) {
	var set []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if upd.Pay != nil {
		add("pay", *upd.Pay)
	}
	if upd.HourlyWage != nil {
		add("hourly_wage", *upd.HourlyWage)
	}
	if upd.Date != nil {
		add("date", *upd.Date)
	}
	if upd.StartTime != nil {
		add("start_time", *upd.StartTime)
	}
	if upd.EndTime != nil {
		add("end_time", *upd.EndTime)
	}
	if upd.TotalHours != nil {
		add("total_hours", *upd.TotalHours)
	}
	if upd.Content != nil {
		add("content", *upd.Content)
	}
	if upd.ImageURL != nil {
		add("image_url", *upd.ImageURL)
	}

	if len(set) == 0 {
		return 0, errors.New("no fields to update")
	}

	args = append(args, id, ownerID)
	query := fmt.Sprintf(
		"UPDATE job_posts SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(set, ", "), len(args)-1, len(args),
	)

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, ErrForbidden
	}
	return affected, nil
}

// ========================
// DELETE (OWNER ONLY)
// ========================

func (r *JobPostRepo) Delete(ctx context.Context, id, ownerID int) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM job_posts WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, ErrForbidden
	}
	return affected, nil
}

// ========================
// COUNT OPEN POSTS
// ========================

// CountOpen returns the number of posts whose work date is today or later.
// The stats refresher feeds this into the job_posts_open gauge.
func (r *JobPostRepo) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM job_posts WHERE date >= CURRENT_DATE`).Scan(&n)
	return n, err
}
