package agent

import (
	"context"
	"fmt"
	"strings"
)

// MockCall records one invocation of the mock generator.
type MockCall struct {
	SystemPrompt string
	Messages     []Message
	Config       GenConfig
}

// MockGenerator is a deterministic Generator for tests. It records every
// call and returns either a fixed response, a fixed error, or a response
// derived from the prompt.
type MockGenerator struct {
	Response string
	Err      error
	Calls    []MockCall
}

// NewMockGenerator creates a mock returning the given fixed response.
func NewMockGenerator(response string) *MockGenerator {
	return &MockGenerator{Response: response}
}

// NewMockGeneratorWithError creates a mock that always fails.
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{Err: err}
}

// Generate implements Generator.
func (m *MockGenerator) Generate(ctx context.Context, systemPrompt string, messages []Message, cfg GenConfig) (string, error) {
	m.Calls = append(m.Calls, MockCall{
		SystemPrompt: systemPrompt,
		Messages:     messages,
		Config:       cfg,
	})

	if m.Err != nil {
		return "", m.Err
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return mockChapterText(messages), nil
}

// LastCall returns the most recent invocation, or false if none happened.
func (m *MockGenerator) LastCall() (MockCall, bool) {
	if len(m.Calls) == 0 {
		return MockCall{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}

// mockChapterText derives a small predictable chapter from the user prompt.
func mockChapterText(messages []Message) string {
	prompt := ""
	if len(messages) > 0 {
		prompt = messages[len(messages)-1].Content
	}

	var b strings.Builder
	b.WriteString("The inn was quiet that night, and the quiet had edges. ")
	b.WriteString(fmt.Sprintf("A story unfolded across %d lines of instruction. ", strings.Count(prompt, "\n")+1))
	b.WriteString("The innkeeper polished the bar and waited for the telling to begin.")
	return b.String()
}
