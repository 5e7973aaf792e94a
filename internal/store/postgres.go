package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres is the durable Store backend. Unlike the memory backend, the
// schema carries a real foreign key from content to rooms with ON DELETE
// CASCADE, so referential integrity is enforced by the database.
type Postgres struct {
	db *sql.DB
}

// OpenDB opens a PostgreSQL connection pool using the given DSN.
func OpenDB(databaseURL string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, errors.New("database URL is empty")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	// Conservative pool defaults.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Validate connectivity immediately.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) CreateRoom(ctx context.Context, code string) (*Room, error) {
	var room Room
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO rooms (code) VALUES ($1) RETURNING id, code, created_at`,
		code,
	).Scan(&room.ID, &room.Code, &room.CreatedAt)
	if err != nil {
		// The UNIQUE constraint on code is the atomic check-then-insert.
		if isUniqueViolation(err) {
			return nil, ErrCodeTaken
		}
		return nil, err
	}
	return &room, nil
}

func (p *Postgres) RoomByCode(ctx context.Context, code string) (*Room, error) {
	var room Room
	err := p.db.QueryRowContext(ctx,
		`SELECT id, code, created_at FROM rooms WHERE code = $1`,
		code,
	).Scan(&room.ID, &room.Code, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (p *Postgres) DeleteRoom(ctx context.Context, roomID string) (bool, error) {
	// Content rows go with the room via ON DELETE CASCADE.
	res, err := p.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, roomID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (p *Postgres) CreateContent(ctx context.Context, in InsertContent) (*Content, error) {
	var c Content
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO content (room_id, type, title, data, file_name, file_size, mime_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, room_id, type, title, data, file_name, file_size, mime_type, created_at`,
		in.RoomID, string(in.Type), in.Title, in.Data, in.FileName, in.FileSize, in.MimeType,
	).Scan(&c.ID, &c.RoomID, &c.Type, &c.Title, &c.Data, &c.FileName, &c.FileSize, &c.MimeType, &c.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (p *Postgres) ContentByRoom(ctx context.Context, roomID string) ([]Content, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, room_id, type, title, data, file_name, file_size, mime_type, created_at
		 FROM content
		 WHERE room_id = $1
		 ORDER BY created_at DESC, id DESC`,
		roomID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]Content, 0)
	for rows.Next() {
		var c Content
		if err := rows.Scan(&c.ID, &c.RoomID, &c.Type, &c.Title, &c.Data, &c.FileName, &c.FileSize, &c.MimeType, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Postgres) ContentByID(ctx context.Context, id string) (*Content, error) {
	return p.queryContent(ctx,
		`SELECT id, room_id, type, title, data, file_name, file_size, mime_type, created_at
		 FROM content WHERE id = $1`, id)
}

func (p *Postgres) ContentByFileRef(ctx context.Context, ref string) (*Content, error) {
	// The reference is a content id under the inline and object-storage
	// strategies, and the generated filename in data under the disk one.
	return p.queryContent(ctx,
		`SELECT id, room_id, type, title, data, file_name, file_size, mime_type, created_at
		 FROM content
		 WHERE type = 'file' AND (id = $1 OR data = $1)
		 LIMIT 1`, ref)
}

func (p *Postgres) queryContent(ctx context.Context, query, arg string) (*Content, error) {
	var c Content
	err := p.db.QueryRowContext(ctx, query, arg).
		Scan(&c.ID, &c.RoomID, &c.Type, &c.Title, &c.Data, &c.FileName, &c.FileSize, &c.MimeType, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (p *Postgres) DeleteContent(ctx context.Context, contentID, roomID string) (bool, error) {
	// Scoped delete: the room id must match, so knowing a foreign content
	// id is not enough to remove it.
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM content WHERE id = $1 AND room_id = $2`,
		contentID, roomID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
