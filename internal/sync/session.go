package sync

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/quillboard/quillboard/backend-go/internal/board"
	"github.com/quillboard/quillboard/backend-go/internal/document"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 8 * 1024 * 1024 // full board snapshots with thumbnails
)

// Session is one authenticated websocket connection editing one board.
// Clients submit full document snapshots; the session keeps only the
// most recent one and persists it at most once per save interval. The
// pending snapshot is flushed on disconnect so the last edit is never
// lost.
type Session struct {
	conn    *websocket.Conn
	service *board.Service
	send    chan []byte

	BoardID   string
	UserID    string
	SessionID string

	interval time.Duration

	mu         sync.Mutex
	pending    *SaveSubmitPayload
	pendingSeq int64
	// hadContent tracks whether the last persisted document was
	// non-empty, to reject a suspicious all-empty autosave.
	hadContent bool
}

func NewSession(conn *websocket.Conn, service *board.Service, boardID, userID string, interval time.Duration, hadContent bool) *Session {
	return &Session{
		conn:       conn,
		service:    service,
		send:       make(chan []byte, 64),
		BoardID:    boardID,
		UserID:     userID,
		SessionID:  uuid.New().String(),
		interval:   interval,
		hadContent: hadContent,
	}
}

func (s *Session) ReadPump(ctx context.Context) {
	defer func() {
		// Persist whatever is still pending before the connection dies.
		s.flush(context.Background())
		s.conn.Close(websocket.StatusNormalClosure, "")
		slog.Info("session ended", "board", s.BoardID, "user", s.UserID, "session", s.SessionID)
	}()

	slog.Info("session started", "board", s.BoardID, "user", s.UserID, "session", s.SessionID)

	s.conn.SetReadLimit(maxMsgSize)

	welcome, _ := json.Marshal(WelcomePayload{BoardID: s.BoardID})
	s.enqueue(&Message{Type: TypeWelcome, BoardID: s.BoardID, Payload: welcome})

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "user", s.UserID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "user", s.UserID)
			continue
		}

		switch msg.Type {
		case TypeSaveSubmit:
			s.handleSubmit(&msg)
		default:
			slog.Warn("unknown message type", "type", msg.Type, "user", s.UserID)
		}
	}
}

func (s *Session) WritePump(ctx context.Context) {
	pingTicker := time.NewTicker(pingPeriod)
	saveTicker := time.NewTicker(s.interval)
	defer func() {
		pingTicker.Stop()
		saveTicker.Stop()
		s.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-s.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "user", s.UserID)
				return
			}

		case <-saveTicker.C:
			s.flush(ctx)

		case <-pingTicker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) handleSubmit(msg *Message) {
	var payload SaveSubmitPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.nack(msg.Seq, "invalid payload")
		return
	}
	if len(payload.Document) == 0 {
		s.nack(msg.Seq, "document is required")
		return
	}

	var doc document.Document
	if err := json.Unmarshal(payload.Document, &doc); err != nil {
		s.nack(msg.Seq, "malformed document")
		return
	}

	empty := len(doc.Strokes) == 0 && len(doc.Texts) == 0

	s.mu.Lock()
	if empty && s.hadContent && !payload.Force {
		s.mu.Unlock()
		s.nack(msg.Seq, "refusing to overwrite non-empty board with empty document")
		return
	}
	// Latest snapshot wins; earlier pending ones are superseded.
	s.pending = &payload
	s.pendingSeq = msg.Seq
	s.mu.Unlock()
}

// flush persists the pending snapshot, if any, and acks it.
func (s *Session) flush(ctx context.Context) {
	s.mu.Lock()
	payload := s.pending
	seq := s.pendingSeq
	s.pending = nil
	s.mu.Unlock()

	if payload == nil {
		return
	}

	saved, err := s.service.Save(ctx, s.BoardID, s.UserID, payload.Document, payload.Thumbnail)
	if err != nil {
		slog.Error("autosave failed", "error", err, "board", s.BoardID, "session", s.SessionID)
		s.nack(seq, "save failed")
		return
	}

	var doc document.Document
	if err := json.Unmarshal(payload.Document, &doc); err == nil {
		s.mu.Lock()
		s.hadContent = len(doc.Strokes) > 0 || len(doc.Texts) > 0
		s.mu.Unlock()
	}

	ack, _ := json.Marshal(SaveAckPayload{Seq: seq, SavedAt: saved.UpdatedAt})
	s.enqueue(&Message{Type: TypeSaveAck, BoardID: s.BoardID, Seq: seq, Payload: ack})
}

func (s *Session) nack(seq int64, reason string) {
	payload, _ := json.Marshal(SaveNackPayload{Seq: seq, Reason: reason})
	s.enqueue(&Message{Type: TypeSaveNack, BoardID: s.BoardID, Seq: seq, Payload: payload})
}

func (s *Session) enqueue(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case s.send <- data:
	default:
		slog.Warn("session send buffer full, dropping message", "user", s.UserID)
	}
}
