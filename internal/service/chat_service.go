package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"shopchat-ai/internal/domain"
	"shopchat-ai/internal/llm"
	"shopchat-ai/internal/repository"
)

// Respuesta fija cuando el generador falla: la conversacion nunca muestra
// un error tecnico al cliente.
const FallbackReply = "I apologize, but I'm having trouble processing your request right now. Please try again or contact our support team for immediate assistance."

// Respuesta fija cuando la tienda agoto su cupo mensual de chats.
const quotaExceededReply = "Our chat assistant has reached its monthly limit. Please contact the store directly or try again later."

const defaultAITimeout = 15 * time.Second

// ChatQuotaLimiter limita los turnos de chat por tienda y mes.
// Limit <= 0 significa sin limite.
type ChatQuotaLimiter interface {
	Allow(storeID string, limit int) bool
}

// ChatResult es lo que ve el widget al completar un turno.
type ChatResult struct {
	Reply     string `json:"reply"`
	SessionID string `json:"sessionId"`
	Sentiment string `json:"sentiment"`
}

// SessionHistory agrupa una sesion con sus mensajes en orden de creacion.
type SessionHistory struct {
	domain.ChatSession
	Messages []domain.ChatMessage `json:"messages"`
}

// ChatService orquesta un turno completo: tienda, sesion, mensaje del
// cliente, respuesta generada y registro del intercambio.
type ChatService struct {
	logger      *zap.Logger
	stores      *StoreDirectory
	sessions    *SessionResolver
	ledger      *MessageLedger
	faqs        repository.FAQRepository
	automations repository.AutomationRepository
	analytics   repository.AnalyticsRepository
	responder   llm.Responder
	embedder    llm.Embedder
	prompts     SupportPromptBuilder
	quota       ChatQuotaLimiter
	aiTimeout   time.Duration
}

func NewChatService(
	logger *zap.Logger,
	stores *StoreDirectory,
	sessions *SessionResolver,
	ledger *MessageLedger,
	faqs repository.FAQRepository,
	automations repository.AutomationRepository,
	analytics repository.AnalyticsRepository,
	responder llm.Responder,
	embedder llm.Embedder,
	quota ChatQuotaLimiter,
	aiTimeout time.Duration,
) *ChatService {
	if aiTimeout <= 0 {
		aiTimeout = defaultAITimeout
	}
	return &ChatService{
		logger:      logger,
		stores:      stores,
		sessions:    sessions,
		ledger:      ledger,
		faqs:        faqs,
		automations: automations,
		analytics:   analytics,
		responder:   responder,
		embedder:    embedder,
		quota:       quota,
		aiTimeout:   aiTimeout,
	}
}

// HandleMessage procesa un mensaje entrante del widget. Los errores de
// persistencia se propagan; los fallos del proveedor de IA degradan a
// valores por defecto y nunca llegan al caller.
func (s *ChatService) HandleMessage(ctx context.Context, shopDomain, messageText string, customer domain.CustomerInfo, suppliedSessionID string) (ChatResult, error) {
	messageText = strings.TrimSpace(messageText)
	if messageText == "" {
		return ChatResult{}, ErrMessageInvalidInput
	}

	store, err := s.stores.Resolve(ctx, shopDomain)
	if err != nil {
		return ChatResult{}, err
	}

	session, err := s.sessions.Resolve(ctx, store, suppliedSessionID, customer)
	if err != nil {
		return ChatResult{}, err
	}

	if _, err := s.ledger.Append(ctx, session.ID, store.ID, domain.RoleUser, messageText); err != nil {
		return ChatResult{}, fmt.Errorf("append user message: %w", err)
	}

	var reply, sentiment string
	if s.quota != nil && !s.quota.Allow(store.ID, planChatLimit(store.Plan)) {
		// Cupo mensual agotado: se responde el aviso fijo sin llamar a la IA,
		// pero el turno igual queda registrado en la sesion.
		s.logger.Info("chat quota exceeded", zap.String("store_id", store.ID), zap.String("plan", store.Plan))
		reply, sentiment = quotaExceededReply, domain.SentimentNeutral
	} else {
		reply, sentiment = s.respond(ctx, store, messageText, customer)
	}

	if _, err := s.ledger.Append(ctx, session.ID, store.ID, domain.RoleAssistant, reply); err != nil {
		return ChatResult{}, fmt.Errorf("append assistant message: %w", err)
	}

	if err := s.sessions.Touch(ctx, session.ID, sentiment); err != nil {
		return ChatResult{}, fmt.Errorf("touch session: %w", err)
	}

	if s.analytics != nil {
		event := domain.AnalyticsEvent{
			ID:        uuid.NewString(),
			StoreID:   store.ID,
			EventType: domain.EventChatTurn,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.analytics.Record(ctx, event); err != nil {
			s.logger.Warn("record analytics failed", zap.Error(err), zap.String("store_id", store.ID))
		}
	}

	return ChatResult{
		Reply:     reply,
		SessionID: session.ID,
		Sentiment: sentiment,
	}, nil
}

// planChatLimit devuelve el cupo mensual de turnos segun el plan.
// Cero significa sin limite.
func planChatLimit(plan string) int {
	switch plan {
	case domain.PlanFree:
		return 50
	case domain.PlanStarter:
		return 500
	case domain.PlanProfessional:
		return 2000
	}
	return 0
}

// respond produce el texto de respuesta y la etiqueta de sentiment.
// Generacion y clasificacion corren en paralelo bajo un timeout comun;
// cada una degrada por separado a su valor por defecto.
func (s *ChatService) respond(ctx context.Context, store domain.Store, messageText string, customer domain.CustomerInfo) (string, string) {
	aiCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()

	sentimentCh := make(chan string, 1)
	go func() {
		label, err := s.responder.ClassifySentiment(aiCtx, messageText)
		if err != nil {
			s.logger.Warn("sentiment classification failed", zap.Error(err), zap.String("store_id", store.ID))
			label = domain.SentimentNeutral
		}
		sentimentCh <- label
	}()

	reply, served := s.automationReply(ctx, store, messageText)
	if !served {
		faqs := s.relevantFAQs(ctx, store, messageText)
		prompt := s.prompts.Build(store.ShopName, faqs, customer.Name, messageText)

		generated, err := s.responder.Generate(aiCtx, prompt)
		if err != nil || strings.TrimSpace(generated) == "" {
			s.logger.Warn("reply generation failed", zap.Error(err), zap.String("store_id", store.ID))
			generated = FallbackReply
		}
		reply = generated
	}

	return reply, <-sentimentCh
}

// automationReply busca una regla habilitada cuya palabra clave aparezca en
// el mensaje. Devuelve served=false cuando nada coincide y el turno sigue
// el camino normal por el generador.
func (s *ChatService) automationReply(ctx context.Context, store domain.Store, messageText string) (string, bool) {
	if s.automations == nil {
		return "", false
	}
	rules, err := s.automations.ListEnabledByStore(ctx, store.ID)
	if err != nil {
		s.logger.Warn("list automations failed", zap.Error(err), zap.String("store_id", store.ID))
		return "", false
	}

	lowerMsg := strings.ToLower(messageText)
	for _, rule := range rules {
		keyword := strings.ToLower(strings.TrimSpace(rule.Keyword))
		if keyword != "" && strings.Contains(lowerMsg, keyword) {
			return rule.Reply, true
		}
	}
	return "", false
}

// relevantFAQs recupera las FAQs para el prompt. Con embedder configurado
// intenta busqueda por similitud; cualquier fallo cae al listado simple.
func (s *ChatService) relevantFAQs(ctx context.Context, store domain.Store, messageText string) []domain.FAQ {
	if s.faqs == nil {
		return nil
	}

	if s.embedder != nil {
		values, err := s.embedder.Embed(ctx, messageText)
		if err == nil && len(values) > 0 {
			faqs, err := s.faqs.SearchByEmbedding(ctx, store.ID, pgvector.NewVector(values), maxPromptFAQs)
			if err == nil && len(faqs) > 0 {
				return faqs
			}
			if err != nil {
				s.logger.Warn("faq embedding search failed", zap.Error(err), zap.String("store_id", store.ID))
			}
		} else if err != nil {
			s.logger.Warn("embed message failed", zap.Error(err), zap.String("store_id", store.ID))
		}
	}

	faqs, err := s.faqs.ListEnabledByStore(ctx, store.ID, maxPromptFAQs)
	if err != nil {
		s.logger.Warn("list faqs failed", zap.Error(err), zap.String("store_id", store.ID))
		return nil
	}
	return faqs
}

// History devuelve la sesion con sus mensajes para el endpoint de historial.
// Exige que la tienda exista y que la sesion le pertenezca.
func (s *ChatService) History(ctx context.Context, shopDomain, sessionID string) (SessionHistory, error) {
	store, err := s.stores.Lookup(ctx, shopDomain)
	if err != nil {
		return SessionHistory{}, err
	}

	session, err := s.sessions.Lookup(ctx, store, sessionID)
	if err != nil {
		return SessionHistory{}, err
	}

	messages, err := s.ledger.History(ctx, session.ID)
	if err != nil {
		return SessionHistory{}, fmt.Errorf("list messages: %w", err)
	}

	return SessionHistory{ChatSession: session, Messages: messages}, nil
}
