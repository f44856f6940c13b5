package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/quillboard/quillboard/backend-go/internal/auth"
	"github.com/quillboard/quillboard/backend-go/internal/board"
	"github.com/quillboard/quillboard/backend-go/internal/document"
)

type Handler struct {
	boards *board.Service
}

func NewHandler(boards *board.Service) *Handler {
	return &Handler{boards: boards}
}

// ExportPDF streams a rendered PDF of the stored board.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	boardID := mux.Vars(r)["boardId"]

	b, err := h.boards.Get(r.Context(), boardID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var doc document.Document
	if err := json.Unmarshal(b.Document, &doc); err != nil {
		slog.Error("decode stored document", "error", err, "board", boardID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	doc.Normalize()

	var buf bytes.Buffer
	if err := WritePDF(&buf, &doc); err != nil {
		slog.Error("render pdf", "error", err, "board", boardID)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	name := sanitizeFilename(b.Name)
	if name == "" {
		name = "board"
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())

	slog.Info("export complete", "board", boardID, "size", buf.Len())
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, board.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, board.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		slog.Error("export service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
