package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusbuzz/backend/internal/app/models"
)

// ConnectionRepository handles database operations for connection edges.
// There is exactly one row per user pair (user_a_id < user_b_id), so
// every mutation is a single atomic statement.
type ConnectionRepository struct {
	db *pgxpool.Pool
}

// NewConnectionRepository creates a new ConnectionRepository
func NewConnectionRepository(db *pgxpool.Pool) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

const edgeColumns = `id, user_a_id, user_b_id, status, requested_by, requested_at, connected_at`

func scanEdge(row pgx.Row) (*models.ConnectionEdge, error) {
	var edge models.ConnectionEdge
	err := row.Scan(
		&edge.ID,
		&edge.UserAID,
		&edge.UserBID,
		&edge.Status,
		&edge.RequestedBy,
		&edge.RequestedAt,
		&edge.ConnectedAt,
	)
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// GetEdge returns the edge between two users, or nil when the pair has
// no relationship.
func (r *ConnectionRepository) GetEdge(ctx context.Context, userID, otherID int64) (*models.ConnectionEdge, error) {
	a, b := models.OrderPair(userID, otherID)

	query := `SELECT ` + edgeColumns + ` FROM connections WHERE user_a_id = $1 AND user_b_id = $2`

	edge, err := scanEdge(r.db.QueryRow(ctx, query, a, b))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving connection edge: %w", err)
	}
	return edge, nil
}

// GetEdgesForUser returns every edge the user participates in.
func (r *ConnectionRepository) GetEdgesForUser(ctx context.Context, userID int64) ([]*models.ConnectionEdge, error) {
	query := `SELECT ` + edgeColumns + ` FROM connections WHERE user_a_id = $1 OR user_b_id = $1`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving connection edges: %w", err)
	}
	defer rows.Close()

	var edges []*models.ConnectionEdge
	for rows.Next() {
		edge, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning connection edge: %w", err)
		}
		edges = append(edges, edge)
	}
	return edges, rows.Err()
}

// CreatePending inserts a new PENDING edge requested by requesterID.
func (r *ConnectionRepository) CreatePending(ctx context.Context, requesterID, targetID int64) (*models.ConnectionEdge, error) {
	a, b := models.OrderPair(requesterID, targetID)

	query := `
		INSERT INTO connections (user_a_id, user_b_id, status, requested_by)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + edgeColumns

	edge, err := scanEdge(r.db.QueryRow(ctx, query, a, b, models.ConnectionPending, requesterID))
	if err != nil {
		return nil, fmt.Errorf("error creating connection request: %w", err)
	}
	return edge, nil
}

// Connect flips a PENDING edge to CONNECTED and stamps connected_at.
// The status guard makes the flip idempotent under concurrent accepts.
func (r *ConnectionRepository) Connect(ctx context.Context, edgeID int64) (*models.ConnectionEdge, error) {
	query := `
		UPDATE connections
		SET status = $1, connected_at = $2
		WHERE id = $3 AND status = $4
		RETURNING ` + edgeColumns

	edge, err := scanEdge(r.db.QueryRow(ctx, query, models.ConnectionConnected, time.Now(), edgeID, models.ConnectionPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error accepting connection request: %w", err)
	}
	return edge, nil
}

// Delete removes an edge. Used by decline, cancel and disconnect; a
// declined request leaves no residue on either side.
func (r *ConnectionRepository) Delete(ctx context.Context, edgeID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM connections WHERE id = $1`, edgeID)
	if err != nil {
		return fmt.Errorf("error deleting connection edge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ConnectionPeer joins the counterpart's user summary onto an edge row.
type ConnectionPeer struct {
	Edge models.ConnectionEdge
	User models.UserSummary
}

func (r *ConnectionRepository) queryPeers(ctx context.Context, query string, args ...interface{}) ([]ConnectionPeer, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying connections: %w", err)
	}
	defer rows.Close()

	var peers []ConnectionPeer
	for rows.Next() {
		var p ConnectionPeer
		err := rows.Scan(
			&p.Edge.ID,
			&p.Edge.UserAID,
			&p.Edge.UserBID,
			&p.Edge.Status,
			&p.Edge.RequestedBy,
			&p.Edge.RequestedAt,
			&p.Edge.ConnectedAt,
			&p.User.ID,
			&p.User.Username,
			&p.User.FirstName,
			&p.User.LastName,
			&p.User.AvatarURL,
			&p.User.RoleType,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning connection row: %w", err)
		}
		peers = append(peers, p)
	}
	return peers, rows.Err()
}

const peerColumns = `
	c.id, c.user_a_id, c.user_b_id, c.status, c.requested_by, c.requested_at, c.connected_at,
	u.id, u.username, u.first_name, u.last_name, u.avatar_url, u.role_type`

// ListConnected returns the user's accepted connections with the
// counterpart summaries resolved, most recent first.
func (r *ConnectionRepository) ListConnected(ctx context.Context, userID int64) ([]ConnectionPeer, error) {
	query := `
		SELECT ` + peerColumns + `
		FROM connections c
		JOIN users u ON u.id = CASE WHEN c.user_a_id = $1 THEN c.user_b_id ELSE c.user_a_id END
		WHERE (c.user_a_id = $1 OR c.user_b_id = $1) AND c.status = $2
		ORDER BY c.connected_at DESC`

	return r.queryPeers(ctx, query, userID, models.ConnectionConnected)
}

// ListIncoming returns pending requests received by the user, newest first.
func (r *ConnectionRepository) ListIncoming(ctx context.Context, userID int64) ([]ConnectionPeer, error) {
	query := `
		SELECT ` + peerColumns + `
		FROM connections c
		JOIN users u ON u.id = c.requested_by
		WHERE (c.user_a_id = $1 OR c.user_b_id = $1)
		  AND c.status = $2 AND c.requested_by <> $1
		ORDER BY c.requested_at DESC`

	return r.queryPeers(ctx, query, userID, models.ConnectionPending)
}

// ListOutgoing returns pending requests sent by the user, newest first.
func (r *ConnectionRepository) ListOutgoing(ctx context.Context, userID int64) ([]ConnectionPeer, error) {
	query := `
		SELECT ` + peerColumns + `
		FROM connections c
		JOIN users u ON u.id = CASE WHEN c.user_a_id = $1 THEN c.user_b_id ELSE c.user_a_id END
		WHERE (c.user_a_id = $1 OR c.user_b_id = $1)
		  AND c.status = $2 AND c.requested_by = $1
		ORDER BY c.requested_at DESC`

	return r.queryPeers(ctx, query, userID, models.ConnectionPending)
}
