package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/execution-hub/event-console/internal/domain/notification"
)

const notificationColumns = `id, notification_id, event_id, type, key, duration, context, created_at`

// NotificationRepository implements notification.Repository.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO notifications
		(notification_id, event_id, type, key, duration, context, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, n.NotificationID, n.EventID, n.Type, n.Key, n.Duration, n.Context, n.CreatedAt).Scan(&n.ID)
}

func (r *NotificationRepository) List(ctx context.Context, filter notification.Filter, limit, offset int) ([]*notification.Notification, error) {
	query, args := buildListQuery(filter, limit, offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*notification.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func buildListQuery(filter notification.Filter, limit, offset int) (string, []interface{}) {
	query := `SELECT ` + notificationColumns + ` FROM notifications`
	args := []interface{}{}
	idx := 1
	if filter.EventID != nil {
		query += addWhere(query) + " event_id=$" + strconv.Itoa(idx)
		args = append(args, *filter.EventID)
		idx++
	}
	if filter.Type != nil {
		query += addWhere(query) + " type=$" + strconv.Itoa(idx)
		args = append(args, *filter.Type)
		idx++
	}
	if filter.Since != nil {
		query += addWhere(query) + " created_at >= $" + strconv.Itoa(idx)
		args = append(args, *filter.Since)
		idx++
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT $" + strconv.Itoa(idx) + " OFFSET $" + strconv.Itoa(idx+1)
	args = append(args, limit, offset)
	return query, args
}

func addWhere(query string) string {
	if strings.Contains(query, " WHERE ") {
		return " AND"
	}
	return " WHERE"
}

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var n notification.Notification
	if err := row.Scan(&n.ID, &n.NotificationID, &n.EventID, &n.Type, &n.Key, &n.Duration, &n.Context, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}
