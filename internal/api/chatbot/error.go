package chatbot

import (
	"ComputexChatbot/pkg/response"
	"net/http"
)

var (
	ErrSessionNotFound = response.NewError(http.StatusNotFound, "session not found")
	ErrEmptyHistory    = response.NewError(http.StatusNotFound, "session has no messages")
	ErrEmptyMessage    = response.NewError(http.StatusBadRequest, "message must not be empty")
	ErrInvalidHours    = response.NewError(http.StatusBadRequest, "hours must be a non-negative integer")
	ErrSessionStore    = response.NewError(http.StatusInternalServerError, "session store unavailable")
)
