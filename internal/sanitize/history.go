package sanitize

import (
	"sort"
	"strings"
	"time"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"
)

// CleanHistory prepares a raw conversation log for display. Tool messages
// are dropped, every other body is cleaned, messages that clean to nothing
// are dropped, and a message repeating the previous message of the same
// session (same type, same trimmed text) is collapsed into it.
func CleanHistory(msgs []model.ChatMessage) []model.ChatMessage {
	type key struct {
		typ  model.MessageType
		text string
	}
	last := make(map[string]key)

	out := make([]model.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.Type == model.MessageTool {
			continue
		}
		cleaned := CleanMessageContent(m.Content)
		text := strings.TrimSpace(cleaned)
		if text == "" {
			continue
		}

		k := key{typ: m.Type, text: text}
		if prev, ok := last[m.SessionID]; ok && prev == k {
			continue
		}
		last[m.SessionID] = k

		m.Content = cleaned
		out = append(out, m)
	}
	return out
}

// Session summarizes one conversation.
type Session struct {
	ID           string
	Messages     int
	GuestTurns   int
	FirstMessage time.Time
	LastMessage  time.Time
}

// Sessions groups messages by session, most recently active first.
func Sessions(msgs []model.ChatMessage) []Session {
	byID := make(map[string]*Session)
	for _, m := range msgs {
		s, ok := byID[m.SessionID]
		if !ok {
			s = &Session{ID: m.SessionID}
			byID[m.SessionID] = s
		}
		s.Messages++
		if m.Type == model.MessageHuman {
			s.GuestTurns++
		}
		if !m.CreatedAt.IsZero() {
			if s.FirstMessage.IsZero() || m.CreatedAt.Before(s.FirstMessage) {
				s.FirstMessage = m.CreatedAt
			}
			if m.CreatedAt.After(s.LastMessage) {
				s.LastMessage = m.CreatedAt
			}
		}
	}

	sessions := make([]Session, 0, len(byID))
	for _, s := range byID {
		sessions = append(sessions, *s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].LastMessage.Equal(sessions[j].LastMessage) {
			return sessions[i].LastMessage.After(sessions[j].LastMessage)
		}
		return sessions[i].ID < sessions[j].ID
	})
	return sessions
}

// FilterSession returns the messages of one session in their original order.
func FilterSession(msgs []model.ChatMessage, sessionID string) []model.ChatMessage {
	var out []model.ChatMessage
	for _, m := range msgs {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out
}
