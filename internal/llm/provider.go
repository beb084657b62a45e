package llm

import (
	"context"
	"fmt"
	"strings"
)

// Responder define las capacidades de IA que consume el orquestador de chat.
// Cualquier proveedor (Gemini, OpenAI-compatible) debe implementarla.
type Responder interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ClassifySentiment(ctx context.Context, message string) (string, error)
}

// Embedder calcula embeddings para busqueda de FAQs por relevancia.
// Es opcional: sin embedder la app cae al listado simple de FAQs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// sentimentPrompt arma el prompt de clasificacion compartido por proveedores.
func sentimentPrompt(message string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the sentiment of this customer message and respond with only one word: \"positive\", \"neutral\", or \"negative\"\n\n")
	sb.WriteString(fmt.Sprintf("Message: %q\n\n", message))
	sb.WriteString("Sentiment:")
	return sb.String()
}

// normalizeSentiment reduce la salida libre del modelo a una de las tres
// etiquetas validas; cualquier cosa ambigua cuenta como neutral.
func normalizeSentiment(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if strings.Contains(s, "positive") {
		return "positive"
	}
	if strings.Contains(s, "negative") {
		return "negative"
	}
	return "neutral"
}
