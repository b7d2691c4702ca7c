package service

import (
	"context"
	"errors"
	"sync"

	"github.com/fleveque/namesmith/internal/llm"
	"github.com/fleveque/namesmith/internal/model"
)

// fakeText is a scripted llm.TextClient.
type fakeText struct {
	structured    string
	structuredErr error
	text          func(prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

func (f *fakeText) GenerateText(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.text == nil {
		return `<svg viewBox="0 0 100 100"></svg>`, nil
	}
	return f.text(prompt)
}

func (f *fakeText) GenerateStructured(_ context.Context, prompt string, _ llm.StructuredOutput) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.structured, f.structuredErr
}

func (f *fakeText) ProviderName() string { return "fake" }
func (f *fakeText) ModelName() string    { return "fake-text" }

// fakeImage is a scripted llm.ImageClient.
type fakeImage struct {
	image func(prompt string) ([]byte, error)
}

func (f *fakeImage) GenerateImage(_ context.Context, prompt string) ([]byte, error) {
	if f.image == nil {
		return []byte("png-bytes"), nil
	}
	return f.image(prompt)
}

func (f *fakeImage) ProviderName() string { return "fake" }
func (f *fakeImage) ModelName() string    { return "fake-image" }

// fakeIdeas is a scripted IdeaSource.
type fakeIdeas struct {
	ideas []model.NameIdea
	err   error
	calls int
}

func (f *fakeIdeas) Generate(context.Context, model.UserInput) ([]model.NameIdea, error) {
	f.calls++
	return f.ideas, f.err
}

var errBackend = errors.New("backend down")
