package llm

import "context"

// MockResponder permite tests sin llamar a un proveedor real.
type MockResponder struct {
	Reply        string
	Sentiment    string
	GenerateErr  error
	SentimentErr error

	Prompts []string
}

func (m *MockResponder) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	return m.Reply, m.GenerateErr
}

func (m *MockResponder) ClassifySentiment(ctx context.Context, message string) (string, error) {
	if m.SentimentErr != nil {
		return "", m.SentimentErr
	}
	if m.Sentiment == "" {
		return "neutral", nil
	}
	return m.Sentiment, nil
}

// MockEmbedder devuelve un vector fijo para tests.
type MockEmbedder struct {
	Vector []float32
	Err    error
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return m.Vector, m.Err
}
