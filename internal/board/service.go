package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quillboard/quillboard/backend-go/internal/db"
	"github.com/quillboard/quillboard/backend-go/internal/document"
	"github.com/quillboard/quillboard/backend-go/internal/typeid"
)

var (
	ErrNotFound  = errors.New("board not found")
	ErrForbidden = errors.New("forbidden")
)

type Service struct {
	store *db.Store
}

func NewService(store *db.Store) *Service {
	return &Service{store: store}
}

// Board is the API representation of a stored whiteboard.
type Board struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	OwnerID   string          `json:"ownerId"`
	Document  json.RawMessage `json:"document,omitempty"`
	Thumbnail string          `json:"thumbnail,omitempty"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

func (s *Service) Create(ctx context.Context, name, ownerID string) (*Board, error) {
	boardID := typeid.NewBoardID()

	// Seed an empty document so a fresh board always loads a valid snapshot
	emptyDoc := document.NewEmptyDocument(boardID, name)
	docJSON, err := json.Marshal(emptyDoc)
	if err != nil {
		return nil, fmt.Errorf("marshal empty document: %w", err)
	}

	dbBoard, err := s.store.CreateBoard(ctx, db.CreateBoardParams{
		ID:       boardID,
		OwnerID:  ownerID,
		Name:     name,
		Document: docJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}

	return dbBoardToBoard(dbBoard, true), nil
}

func (s *Service) Get(ctx context.Context, boardID, userID string) (*Board, error) {
	dbBoard, err := s.getOwned(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}
	return dbBoardToBoard(dbBoard, true), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Board, error) {
	summaries, err := s.store.ListBoardsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	boards := make([]Board, len(summaries))
	for i, b := range summaries {
		boards[i] = Board{
			ID:        b.ID,
			Name:      b.Name,
			OwnerID:   b.OwnerID,
			Thumbnail: b.Thumbnail,
			CreatedAt: b.CreatedAt.Format("2006-01-02T15:04:05Z"),
			UpdatedAt: b.UpdatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}
	return boards, nil
}

// Save replaces the stored document and thumbnail. The document is
// normalized before storage so malformed client state never persists.
func (s *Service) Save(ctx context.Context, boardID, userID string, docJSON json.RawMessage, thumbnail string) (*Board, error) {
	if _, err := s.getOwned(ctx, boardID, userID); err != nil {
		return nil, err
	}

	var doc document.Document
	if err := json.Unmarshal(docJSON, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	doc.ID = boardID
	doc.Normalize()

	normalized, err := json.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	dbBoard, err := s.store.UpdateBoardDocument(ctx, db.UpdateBoardDocumentParams{
		ID:        boardID,
		Document:  normalized,
		Thumbnail: thumbnail,
	})
	if err != nil {
		return nil, fmt.Errorf("save board: %w", err)
	}

	return dbBoardToBoard(dbBoard, false), nil
}

func (s *Service) Rename(ctx context.Context, boardID, userID, name string) (*Board, error) {
	if _, err := s.getOwned(ctx, boardID, userID); err != nil {
		return nil, err
	}

	dbBoard, err := s.store.RenameBoard(ctx, boardID, name)
	if err != nil {
		return nil, fmt.Errorf("rename board: %w", err)
	}

	return dbBoardToBoard(dbBoard, false), nil
}

func (s *Service) Delete(ctx context.Context, boardID, userID string) error {
	if _, err := s.getOwned(ctx, boardID, userID); err != nil {
		return err
	}
	return s.store.DeleteBoard(ctx, boardID)
}

func (s *Service) getOwned(ctx context.Context, boardID, userID string) (db.Board, error) {
	dbBoard, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.Board{}, ErrNotFound
		}
		return db.Board{}, fmt.Errorf("get board: %w", err)
	}
	if dbBoard.OwnerID != userID {
		return db.Board{}, ErrForbidden
	}
	return dbBoard, nil
}

func dbBoardToBoard(b db.Board, includeDocument bool) *Board {
	out := &Board{
		ID:        b.ID,
		Name:      b.Name,
		OwnerID:   b.OwnerID,
		Thumbnail: b.Thumbnail,
		CreatedAt: b.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: b.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if includeDocument {
		out.Document = json.RawMessage(b.Document)
	}
	return out
}
