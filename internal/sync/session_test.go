package sync

import (
	"encoding/json"
	"testing"
	"time"
)

func newTestSession(hadContent bool) *Session {
	return NewSession(nil, nil, "board_test", "user_test", time.Second, hadContent)
}

func submitMessage(t *testing.T, seq int64, doc string, force bool) *Message {
	t.Helper()
	payload, err := json.Marshal(SaveSubmitPayload{
		Document: json.RawMessage(doc),
		Force:    force,
	})
	if err != nil {
		t.Fatal(err)
	}
	return &Message{Type: TypeSaveSubmit, Seq: seq, Payload: payload}
}

func drainOne(t *testing.T, s *Session) *Message {
	t.Helper()
	select {
	case data := <-s.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal outgoing message: %v", err)
		}
		return &msg
	default:
		return nil
	}
}

const nonEmptyDoc = `{"id":"board_test","name":"t","strokes":[{"id":"s1","points":[{"x":0,"y":0}],"size":3,"color":"#000","tool":"draw"}],"texts":[]}`
const emptyDoc = `{"id":"board_test","name":"t","strokes":[],"texts":[]}`

func TestSubmitQueuesPending(t *testing.T) {
	s := newTestSession(false)
	s.handleSubmit(submitMessage(t, 1, nonEmptyDoc, false))

	if s.pending == nil {
		t.Fatal("submit did not queue a pending snapshot")
	}
	if s.pendingSeq != 1 {
		t.Errorf("pendingSeq = %d, want 1", s.pendingSeq)
	}
	if msg := drainOne(t, s); msg != nil {
		t.Errorf("unexpected outgoing message %q", msg.Type)
	}
}

func TestLatestSubmitWins(t *testing.T) {
	s := newTestSession(false)
	s.handleSubmit(submitMessage(t, 1, nonEmptyDoc, false))
	s.handleSubmit(submitMessage(t, 2, nonEmptyDoc, false))

	if s.pendingSeq != 2 {
		t.Errorf("pendingSeq = %d, want the newer submit", s.pendingSeq)
	}
}

func TestEmptyDocumentRejectedOverContent(t *testing.T) {
	s := newTestSession(true)
	s.handleSubmit(submitMessage(t, 1, emptyDoc, false))

	if s.pending != nil {
		t.Error("empty snapshot queued over a non-empty board")
	}
	msg := drainOne(t, s)
	if msg == nil || msg.Type != TypeSaveNack {
		t.Fatalf("message = %+v, want a nack", msg)
	}
	var nack SaveNackPayload
	if err := json.Unmarshal(msg.Payload, &nack); err != nil {
		t.Fatal(err)
	}
	if nack.Seq != 1 {
		t.Errorf("nack seq = %d, want 1", nack.Seq)
	}
}

func TestForceAllowsEmptyDocument(t *testing.T) {
	s := newTestSession(true)
	s.handleSubmit(submitMessage(t, 1, emptyDoc, true))

	if s.pending == nil {
		t.Error("forced empty snapshot was rejected")
	}
}

func TestEmptyDocumentAcceptedOnEmptyBoard(t *testing.T) {
	s := newTestSession(false)
	s.handleSubmit(submitMessage(t, 1, emptyDoc, false))

	if s.pending == nil {
		t.Error("empty snapshot rejected although the board was already empty")
	}
}

func TestMalformedDocumentNacked(t *testing.T) {
	s := newTestSession(false)
	s.handleSubmit(submitMessage(t, 3, `{"strokes":"nope"}`, false))

	if s.pending != nil {
		t.Error("malformed snapshot queued")
	}
	msg := drainOne(t, s)
	if msg == nil || msg.Type != TypeSaveNack {
		t.Fatalf("message = %+v, want a nack", msg)
	}
}
