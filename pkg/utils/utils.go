package utils

import (
	"crypto/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	NewSessionID() string
	ParseHours(raw string, fallback int) (int, error)
}

type utils struct{}

func New() IUtils {
	return &utils{}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func (u *utils) NewSessionID() string {
	return uuid.NewString()
}

// ParseHours reads a positive hour count from a query value. An empty value
// yields fallback.
func (u *utils) ParseHours(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}

	hours, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if hours < 0 {
		return 0, strconv.ErrRange
	}

	return hours, nil
}
