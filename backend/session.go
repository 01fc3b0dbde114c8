package backend

import (
	"context"
	"sync"
)

// Session serializes invocations against one shared State. Chat transports
// call Handle once per message, possibly from many goroutines
type Session struct {
	mu sync.Mutex

	State      *State
	Dice       Source
	Characters CharacterLoader
	Configs    ConfigLoader
}

// Handle runs one line of input for user. attachments may be nil when the
// message carried nothing that `read` could import
func (s *Session) Handle(ctx context.Context, user, text string, attachments AttachmentFetcher) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Execute(ctx, text, &Context{
		User:        user,
		State:       s.State,
		Dice:        s.Dice,
		Characters:  s.Characters,
		Configs:     s.Configs,
		Attachments: attachments,
	})
}
