package service

import (
	"fmt"
	"strings"

	"shopchat-ai/internal/domain"
)

// Limite de FAQs incluidas en el prompt, sin importar cuantas esten habilitadas.
const maxPromptFAQs = 10

// SupportPromptBuilder arma el prompt del asistente de soporte para una tienda.
type SupportPromptBuilder struct{}

// Build compone el contexto acotado: instruccion fija con el nombre de la
// tienda, hasta maxPromptFAQs pares pregunta/respuesta, el nombre del cliente
// si se conoce y el mensaje textual del cliente.
func (SupportPromptBuilder) Build(shopName string, faqs []domain.FAQ, customerName, message string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are an AI shopping assistant for %s.\n", shopName))
	sb.WriteString("You help customers with product questions, order tracking, and general support.\n")
	sb.WriteString("Be friendly, helpful, and concise in your responses.")

	if len(faqs) > maxPromptFAQs {
		faqs = faqs[:maxPromptFAQs]
	}
	if len(faqs) > 0 {
		sb.WriteString("\n\nFrequently Asked Questions:\n")
		for _, faq := range faqs {
			sb.WriteString(fmt.Sprintf("\nQ: %s\nA: %s\n", faq.Question, faq.Answer))
		}
		sb.WriteString("\nUse these FAQs to answer relevant questions.")
	}

	if strings.TrimSpace(customerName) != "" {
		sb.WriteString(fmt.Sprintf("\n\nCustomer name: %s", strings.TrimSpace(customerName)))
	}

	sb.WriteString(fmt.Sprintf("\n\nCustomer: %s\n\nAssistant:", message))

	return sb.String()
}
