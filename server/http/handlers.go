package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/w-h-a/semsearch/internal/service"
	"github.com/w-h-a/semsearch/mapper"
	"github.com/w-h-a/semsearch/storer"
	getsafe "github.com/w-h-a/semsearch/util/get_safe"
)

type upsertItem struct {
	Id        string         `json:"id"`
	Values    []float32      `json:"values"`
	Embedding []float32      `json:"embedding"`
	Metadata  map[string]any `json:"metadata"`
}

type saveReplyRequest struct {
	ThreadID    string    `json:"threadId"`
	CustomerMsg string    `json:"customerMsg"`
	AIReply     string    `json:"aiReply"`
	Timestamp   string    `json:"timestamp"`
	Embedding   []float32 `json:"embedding"`
}

type updateReplyRequest struct {
	ThreadID string `json:"threadId"`
	AIReply  string `json:"aiReply"`
}

type draftReplyRequest struct {
	CustomerMsg string `json:"customerMsg"`
	TopK        int    `json:"top_k"`
}

func (s *httpServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "semantic search api is running",
	})
}

func (s *httpServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if len(query) == 0 {
		writeError(w, http.StatusBadRequest, "query must not be empty")
		return
	}

	topK := service.DefaultTopK
	if raw := r.URL.Query().Get("top_k"); len(raw) > 0 {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "top_k must be a positive integer")
			return
		}
		topK = parsed
	}

	matches, err := s.service.Search(r.Context(), query, topK)
	if err != nil {
		slog.ErrorContext(r.Context(), "search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"matches": mapper.ToEmailMatches(matches),
	})
}

func (s *httpServer) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var items []upsertItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON array of vectors")
		return
	}

	records := make([]storer.Record, 0, len(items))
	for _, item := range items {
		values := item.Values
		if len(values) == 0 {
			values = item.Embedding
		}
		if len(strings.TrimSpace(item.Id)) == 0 {
			item.Id = uuid.New().String()
		}
		records = append(records, storer.Record{
			Id:       item.Id,
			Values:   values,
			Metadata: getsafe.StringMap(item.Metadata),
		})
	}

	count, err := s.service.Upsert(r.Context(), records)
	if err != nil {
		slog.ErrorContext(r.Context(), "upsert failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("upserted %d vectors", count),
	})
}

func (s *httpServer) handleSaveReply(w http.ResponseWriter, r *http.Request) {
	var req saveReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply := mapper.ReplyThread{
		ThreadID:    req.ThreadID,
		CustomerMsg: req.CustomerMsg,
		AIReply:     req.AIReply,
		Timestamp:   req.Timestamp,
	}

	threadID, err := s.service.SaveReply(r.Context(), reply, req.Embedding)
	if errors.Is(err, service.ErrInvalidEmbedding) {
		writeError(w, http.StatusBadRequest, "embedding must be a list of exactly the index dimension")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "save reply failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "saved reply",
		"threadId": threadID,
	})
}

func (s *httpServer) handleUpdateReply(w http.ResponseWriter, r *http.Request) {
	var req updateReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(strings.TrimSpace(req.ThreadID)) == 0 {
		writeError(w, http.StatusBadRequest, "threadId must not be empty")
		return
	}

	err := s.service.UpdateReply(r.Context(), req.ThreadID, req.AIReply)
	if errors.Is(err, storer.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no reply found for threadId %s", req.ThreadID))
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "update reply failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "reply updated",
	})
}

func (s *httpServer) handleDraftReply(w http.ResponseWriter, r *http.Request) {
	var req draftReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(strings.TrimSpace(req.CustomerMsg)) == 0 {
		writeError(w, http.StatusBadRequest, "customerMsg must not be empty")
		return
	}

	draft, matches, err := s.service.DraftReply(r.Context(), req.CustomerMsg, req.TopK)
	if errors.Is(err, service.ErrNoGenerator) {
		writeError(w, http.StatusServiceUnavailable, "reply drafting is not configured")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "draft reply failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"draft":   draft,
		"matches": mapper.ToEmailMatches(matches),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
