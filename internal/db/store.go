package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps the connection pool with typed queries for users and boards.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   time.Time
}

type Board struct {
	ID        string
	OwnerID   string
	Name      string
	Document  []byte
	Thumbnail string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BoardSummary is the listing row: everything except the document body.
type BoardSummary struct {
	ID        string
	OwnerID   string
	Name      string
	Thumbnail string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// --- Users ---

type CreateUserParams struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
}

func (s *Store) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password, display_name, created_at`,
		arg.ID, arg.Email, arg.Password, arg.DisplayName,
	)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, password, display_name, created_at
		FROM users WHERE email = $1`,
		email,
	)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

func (s *Store) GetUserByID(ctx context.Context, id string) (User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, password, display_name, created_at
		FROM users WHERE id = $1`,
		id,
	)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

// --- Boards ---

type CreateBoardParams struct {
	ID       string
	OwnerID  string
	Name     string
	Document []byte
}

func (s *Store) CreateBoard(ctx context.Context, arg CreateBoardParams) (Board, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO boards (id, owner_id, name, document)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, name, document, thumbnail, created_at, updated_at`,
		arg.ID, arg.OwnerID, arg.Name, arg.Document,
	)
	var b Board
	err := row.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Document, &b.Thumbnail, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (s *Store) GetBoard(ctx context.Context, id string) (Board, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, owner_id, name, document, thumbnail, created_at, updated_at
		FROM boards WHERE id = $1`,
		id,
	)
	var b Board
	err := row.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Document, &b.Thumbnail, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (s *Store) ListBoardsForUser(ctx context.Context, ownerID string) ([]BoardSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, owner_id, name, thumbnail, created_at, updated_at
		FROM boards WHERE owner_id = $1
		ORDER BY updated_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []BoardSummary
	for rows.Next() {
		var b BoardSummary
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Thumbnail, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

type UpdateBoardDocumentParams struct {
	ID        string
	Document  []byte
	Thumbnail string
}

func (s *Store) UpdateBoardDocument(ctx context.Context, arg UpdateBoardDocumentParams) (Board, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE boards
		SET document = $2, thumbnail = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, owner_id, name, document, thumbnail, created_at, updated_at`,
		arg.ID, arg.Document, arg.Thumbnail,
	)
	var b Board
	err := row.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Document, &b.Thumbnail, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (s *Store) RenameBoard(ctx context.Context, id, name string) (Board, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE boards
		SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, owner_id, name, document, thumbnail, created_at, updated_at`,
		id, name,
	)
	var b Board
	err := row.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Document, &b.Thumbnail, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (s *Store) DeleteBoard(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	return err
}
