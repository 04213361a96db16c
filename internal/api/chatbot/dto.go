package chatbot

import (
	"time"

	"ComputexChatbot/internal/entity"
	"ComputexChatbot/pkg/nlp"
)

type ChatRequest struct {
	Message   string `json:"message" validate:"required,max=1000"`
	SessionID string `json:"session_id" validate:"omitempty,max=64"`
}

type ChatResponse struct {
	Response       string    `json:"response"`
	SessionID      string    `json:"session_id"`
	Category       string    `json:"category"`
	MatchedKeyword *string   `json:"matched_keyword"`
	Timestamp      time.Time `json:"timestamp"`
	ProcessingTime float64   `json:"processing_time"`
}

type AnalyzeRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}

type AnalyzeResponse struct {
	*nlp.Analysis
	ProcessingTime string `json:"processing_time"`
}

type HistoryResponse struct {
	SessionID     string               `json:"session_id"`
	Messages      []entity.ChatMessage `json:"messages"`
	TotalMessages int                  `json:"total_messages"`
}

type SessionInfoResponse struct {
	SessionID     string               `json:"session_id"`
	CreatedAt     time.Time            `json:"created_at"`
	LastActivity  time.Time            `json:"last_activity"`
	TotalMessages int                  `json:"total_messages"`
	UserMessages  int                  `json:"user_messages"`
	BotMessages   int                  `json:"bot_messages"`
	Messages      []entity.ChatMessage `json:"messages"`
}

type SessionSummary struct {
	SessionID    string    `json:"session_id"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

type CleanupResponse struct {
	Message string `json:"message"`
	Hours   int    `json:"hours"`
	Removed int    `json:"removed"`
}

type HealthResponse struct {
	Status          string    `json:"status"`
	NLPModelsLoaded bool      `json:"nlp_models_loaded"`
	OracleAvailable bool      `json:"oracle_available"`
	Timestamp       time.Time `json:"timestamp"`
}

type KeywordsResponse struct {
	Categories []nlp.KeywordGroup `json:"categories"`
	Models     []nlp.Model        `json:"models"`
}

type InfoResponse struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Brands      []string `json:"brands"`
	Categories  []string `json:"categories"`
	Features    []string `json:"features"`
}
