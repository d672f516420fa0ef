package chat

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gerryalvrz/psychat-solana/pkg/utilities"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a local, ephemeral UI entity. It lives only for the
// session and is never persisted.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Encrypted bool      `json:"encrypted"`
	Minted    bool      `json:"minted"`
}

// Session holds the in-memory transcript of the current conversation.
type Session struct {
	ID string

	mu       sync.Mutex
	messages []ChatMessage
}

func NewSession() *Session {
	return &Session{ID: uuid.New().String()}
}

func (s *Session) Append(role, text string) ChatMessage {
	msg := ChatMessage{
		ID:        uuid.New().String(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	return msg
}

func (s *Session) Messages() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// MarkMinted flags every message in the transcript as covered by a mint.
func (s *Session) MarkMinted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		s.messages[i].Encrypted = true
		s.messages[i].Minted = true
	}
}

// Reset drops the transcript, starting a fresh conversation.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ID = uuid.New().String()
	s.messages = nil
}

type transcriptEntry struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	T    time.Time `json:"t"`
}

// TranscriptBlob serializes the conversation for payload preparation.
func (s *Session) TranscriptBlob() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := utilities.Map(s.messages, func(m ChatMessage) transcriptEntry {
		return transcriptEntry{Role: m.Role, Text: m.Text, T: m.Timestamp}
	})
	return json.Marshal(entries)
}
