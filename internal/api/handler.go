package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/santoshk66/maizic-chatbot/internal/faq"
	"github.com/santoshk66/maizic-chatbot/internal/llm"
	"github.com/santoshk66/maizic-chatbot/internal/relay"
	"github.com/santoshk66/maizic-chatbot/internal/session"
)

// User-safe bodies for each failure class. Raw error detail goes to the logs
// and the transcript, never to the customer.
const (
	invalidInputReply   = "Message too long or empty."
	invalidRequestReply = "Invalid request."
	genericApology      = "Something went wrong. Please try again in a moment."
	quotaApology        = "We're receiving a lot of questions right now. Please try again in a few minutes."
)

type Handler struct {
	relay     *relay.Relay
	sessions  session.Store
	matcher   faq.Matcher
	apiKeySet bool
	logger    *zap.Logger
}

func NewHandler(r *relay.Relay, sessions session.Store, matcher faq.Matcher, apiKeySet bool, logger *zap.Logger) *Handler {
	return &Handler{
		relay:     r,
		sessions:  sessions,
		matcher:   matcher,
		apiKeySet: apiKeySet,
		logger:    logger,
	}
}

// Router builds the full HTTP surface with CORS and request logging applied.
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.handleRoot)
	mux.HandleFunc("/debug", h.handleDebug)
	mux.HandleFunc("/chat", h.handleChat)
	mux.HandleFunc("/clear-session", h.handleClearSession)

	return withRequestLogging(h.logger, withCORS(mux))
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type clearSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type debugResponse struct {
	OpenAI     debugOpenAI `json:"openai"`
	Sessions   int         `json:"sessions"`
	FAQEntries int         `json:"faqEntries"`
}

type debugOpenAI struct {
	APIKeyValid bool `json:"apiKeyValid"`
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Maizic Chatbot Backend is running!"))
}

func (h *Handler) handleDebug(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	count, err := h.sessions.Count(r.Context())
	if err != nil {
		h.logger.Error("failed to count sessions", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, debugResponse{
		OpenAI:     debugOpenAI{APIKeyValid: h.apiKeySet},
		Sessions:   count,
		FAQEntries: h.matcher.Len(),
	})
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Reply: invalidInputReply})
		return
	}

	reply, err := h.relay.Handle(r.Context(), req.Message, req.SessionID)
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (h *Handler) handleClearSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req clearSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Reply: invalidRequestReply})
		return
	}

	confirmation, err := h.relay.ClearSession(r.Context(), req.SessionID)
	if err != nil {
		h.logger.Error("clear session failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, chatResponse{Reply: genericApology})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: confirmation})
}

// writeChatError maps relay failures to reply-shaped JSON bodies. Nothing
// the relay returns ever reaches the client as a raw error.
func (h *Handler) writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, relay.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, chatResponse{Reply: invalidInputReply})
	case errors.Is(err, llm.ErrQuotaExceeded):
		h.logger.Error("chat failed: quota exceeded", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, chatResponse{Reply: quotaApology})
	default:
		h.logger.Error("chat failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, chatResponse{Reply: genericApology})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
