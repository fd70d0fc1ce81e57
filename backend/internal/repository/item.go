package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/db"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/matching"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type ItemRepository struct {
	db db.DBTX
}

func NewItemRepository(conn db.DBTX) *ItemRepository {
	return &ItemRepository{db: conn}
}

// Item represents a lost or found report
type Item struct {
	ID           uuid.UUID         `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Category     matching.Category `json:"category"`
	Location     string            `json:"location"`
	LastSeenTime *time.Time        `json:"last_seen_time,omitempty"`
	Status       matching.Status   `json:"status"`
	ImageURL     string            `json:"image_url"`
	UserName     string            `json:"user_name"`
	UserEmail    string            `json:"user_email"`
	ReportedOn   time.Time         `json:"reported_on"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// MatchItem returns the view of the report the matching engine scores.
func (i Item) MatchItem() matching.Item {
	return matching.Item{
		ID:           i.ID.String(),
		Category:     i.Category,
		Title:        i.Title,
		Description:  i.Description,
		Location:     i.Location,
		LastSeenTime: i.LastSeenTime,
		Status:       i.Status,
	}
}

// MatchItems converts a slice of reports for the matching engine.
func MatchItems(items []Item) []matching.Item {
	out := make([]matching.Item, len(items))
	for i, item := range items {
		out[i] = item.MatchItem()
	}
	return out
}

// CreateItemRequest represents the request to create an item
type CreateItemRequest struct {
	Title        string
	Description  string
	Category     matching.Category
	Location     string
	LastSeenTime *time.Time
	Status       matching.Status
	ImageURL     string
	UserName     string
	UserEmail    string
	ReportedOn   time.Time
}

// UpdateItemRequest holds a partial update; nil fields are left unchanged.
type UpdateItemRequest struct {
	Title        *string
	Description  *string
	Category     *matching.Category
	Location     *string
	LastSeenTime *time.Time
	Status       *matching.Status
	ImageURL     *string
}

// ListItemsParams represents parameters for listing items
type ListItemsParams struct {
	Category string // case-insensitive, empty for all
	Search   string // substring over title, description and location
	Limit    int32
	Offset   int32
}

const itemColumns = `id, title, description, category, location, last_seen_time, status,
	image_url, user_name, user_email, reported_on, created_at, updated_at`

// itemRow mirrors the items table with nullable columns as pgtype values.
type itemRow struct {
	ID           pgtype.UUID
	Title        string
	Description  string
	Category     string
	Location     string
	LastSeenTime pgtype.Timestamptz
	Status       string
	ImageURL     string
	UserName     string
	UserEmail    string
	ReportedOn   pgtype.Date
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

func scanItem(row pgx.Row) (itemRow, error) {
	var r itemRow
	err := row.Scan(
		&r.ID, &r.Title, &r.Description, &r.Category, &r.Location, &r.LastSeenTime, &r.Status,
		&r.ImageURL, &r.UserName, &r.UserEmail, &r.ReportedOn, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// convertItemRow converts a database row to a repository item
func convertItemRow(r itemRow) Item {
	item := Item{
		ID:           pgUUIDToUUID(r.ID),
		Title:        r.Title,
		Description:  r.Description,
		Category:     matching.Category(r.Category),
		Location:     r.Location,
		LastSeenTime: pgTimestamptzToTime(r.LastSeenTime),
		Status:       matching.Status(r.Status),
		ImageURL:     r.ImageURL,
		UserName:     r.UserName,
		UserEmail:    r.UserEmail,
	}
	if r.ReportedOn.Valid {
		item.ReportedOn = r.ReportedOn.Time
	}
	if r.CreatedAt.Valid {
		item.CreatedAt = r.CreatedAt.Time
	}
	if r.UpdatedAt.Valid {
		item.UpdatedAt = r.UpdatedAt.Time
	}
	return item
}

func (r *ItemRepository) queryItems(ctx context.Context, sql string, args ...any) ([]Item, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		row, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, convertItemRow(row))
	}
	return items, rows.Err()
}

// CreateItem inserts a new item
func (r *ItemRepository) CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error) {
	row, err := scanItem(r.db.QueryRow(ctx, `
		INSERT INTO items (title, description, category, location, last_seen_time, status,
			image_url, user_name, user_email, reported_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+itemColumns,
		req.Title,
		req.Description,
		string(req.Category),
		req.Location,
		timeToPgTimestamptz(req.LastSeenTime),
		string(req.Status),
		req.ImageURL,
		req.UserName,
		req.UserEmail,
		timeToPgDate(&req.ReportedOn),
	))
	if err != nil {
		return nil, err
	}

	item := convertItemRow(row)
	return &item, nil
}

// GetItem retrieves an item by ID
func (r *ItemRepository) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	row, err := scanItem(r.db.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = $1`,
		uuidToPgUUID(id),
	))
	if err != nil {
		return nil, db.MapNotFound(err)
	}

	item := convertItemRow(row)
	return &item, nil
}

func itemFilter(params ListItemsParams) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if category := strings.TrimSpace(params.Category); category != "" {
		args = append(args, category)
		clauses = append(clauses, fmt.Sprintf("LOWER(category) = LOWER($%d)", len(args)))
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		args = append(args, containsPattern(search))
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d)", n, n, n))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// ListItems retrieves a filtered, paginated list of items, newest first
func (r *ItemRepository) ListItems(ctx context.Context, params ListItemsParams) ([]Item, error) {
	where, args := itemFilter(params)
	args = append(args, params.Limit, params.Offset)
	sql := fmt.Sprintf(`SELECT %s FROM items%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		itemColumns, where, len(args)-1, len(args))
	return r.queryItems(ctx, sql, args...)
}

// CountItems returns the number of items matching the filter, ignoring paging
func (r *ItemRepository) CountItems(ctx context.Context, params ListItemsParams) (int64, error) {
	where, args := itemFilter(params)
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM items`+where, args...).Scan(&count)
	return count, err
}

// ListCandidates returns items with the given status, restricted to one
// category when category is non-empty. Order is stable: newest first.
func (r *ItemRepository) ListCandidates(ctx context.Context, category matching.Category, status matching.Status) ([]Item, error) {
	return r.queryItems(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE ($1::text = '' OR LOWER(category) = LOWER($1::text))
		  AND status = $2
		ORDER BY created_at DESC, id`,
		string(category), string(status),
	)
}

// ListItemsByUser returns the items reported by the given email, newest first
func (r *ItemRepository) ListItemsByUser(ctx context.Context, email string) ([]Item, error) {
	return r.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE LOWER(user_email) = LOWER($1) ORDER BY created_at DESC, id`,
		email,
	)
}

// UpdateItem applies a partial update
func (r *ItemRepository) UpdateItem(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*Item, error) {
	var category, status *string
	if req.Category != nil {
		c := string(*req.Category)
		category = &c
	}
	if req.Status != nil {
		s := string(*req.Status)
		status = &s
	}

	row, err := scanItem(r.db.QueryRow(ctx, `
		UPDATE items SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			category = COALESCE($4, category),
			location = COALESCE($5, location),
			last_seen_time = COALESCE($6, last_seen_time),
			status = COALESCE($7, status),
			image_url = COALESCE($8, image_url),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+itemColumns,
		uuidToPgUUID(id),
		stringToPgText(req.Title),
		stringToPgText(req.Description),
		stringToPgText(category),
		stringToPgText(req.Location),
		timeToPgTimestamptz(req.LastSeenTime),
		stringToPgText(status),
		stringToPgText(req.ImageURL),
	))
	if err != nil {
		return nil, db.MapNotFound(err)
	}

	item := convertItemRow(row)
	return &item, nil
}

// DeleteItem permanently deletes an item
func (r *ItemRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, uuidToPgUUID(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
