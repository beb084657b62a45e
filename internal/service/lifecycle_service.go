package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"shopchat-ai/internal/domain"
	"shopchat-ai/internal/email"
	"shopchat-ai/internal/repository"
)

// LifecycleService implementa exportacion y borrado de datos personales
// ante eventos de cumplimiento. Corre de forma independiente al trafico de
// chat en vivo y debe tolerar ejecucion concurrente con el.
type LifecycleService struct {
	logger        *zap.Logger
	stores        repository.StoreRepository
	sessions      repository.SessionRepository
	messages      repository.MessageRepository
	faqs          repository.FAQRepository
	analytics     repository.AnalyticsRepository
	automations   repository.AutomationRepository
	settings      repository.SettingsRepository
	subscriptions repository.SubscriptionRepository
	sender        email.Sender
}

func NewLifecycleService(
	logger *zap.Logger,
	stores repository.StoreRepository,
	sessions repository.SessionRepository,
	messages repository.MessageRepository,
	faqs repository.FAQRepository,
	analytics repository.AnalyticsRepository,
	automations repository.AutomationRepository,
	settings repository.SettingsRepository,
	subscriptions repository.SubscriptionRepository,
	sender email.Sender,
) *LifecycleService {
	return &LifecycleService{
		logger:        logger,
		stores:        stores,
		sessions:      sessions,
		messages:      messages,
		faqs:          faqs,
		analytics:     analytics,
		automations:   automations,
		settings:      settings,
		subscriptions: subscriptions,
		sender:        sender,
	}
}

// ExportCustomerData arma el paquete de datos del cliente, solo lectura.
// Cero sesiones coincidentes es un resultado valido, no un error. Si hay
// sender configurado, el paquete se envia por correo al cliente.
func (s *LifecycleService) ExportCustomerData(ctx context.Context, shopDomain, customerEmail string) (domain.CustomerDataExport, error) {
	export := domain.CustomerDataExport{
		ShopDomain:    shopDomain,
		CustomerEmail: customerEmail,
		Sessions:      []domain.ExportedSession{},
		GeneratedAt:   time.Now().UTC(),
	}

	store, err := s.findStore(ctx, shopDomain)
	if err != nil {
		return domain.CustomerDataExport{}, err
	}
	if store == nil || strings.TrimSpace(customerEmail) == "" {
		return export, nil
	}

	sessions, err := s.sessions.ListByStoreAndEmail(ctx, store.ID, customerEmail)
	if err != nil {
		return domain.CustomerDataExport{}, fmt.Errorf("list sessions: %w", err)
	}

	for _, session := range sessions {
		messages, err := s.messages.ListBySessionID(ctx, session.ID)
		if err != nil {
			return domain.CustomerDataExport{}, fmt.Errorf("list messages: %w", err)
		}
		exported := domain.ExportedSession{
			ID:        session.ID,
			CreatedAt: session.CreatedAt,
			Messages:  make([]domain.ExportedMessage, 0, len(messages)),
		}
		for _, msg := range messages {
			exported.Messages = append(exported.Messages, domain.ExportedMessage{
				Role:      msg.Role,
				Content:   msg.Content,
				CreatedAt: msg.CreatedAt,
			})
		}
		export.Sessions = append(export.Sessions, exported)
		export.TotalMessages += len(messages)
	}
	export.TotalSessions = len(sessions)

	s.logger.Info("customer data collected",
		zap.String("shop", shopDomain),
		zap.String("email", customerEmail),
		zap.Int("sessions", export.TotalSessions),
		zap.Int("messages", export.TotalMessages),
	)

	if s.sender != nil {
		if err := s.sender.SendCustomerDataExport(ctx, customerEmail, export); err != nil {
			// La entrega es mejor-esfuerzo; el paquete ya quedo armado.
			s.logger.Warn("export delivery failed", zap.Error(err), zap.String("email", customerEmail))
		}
	}

	return export, nil
}

// RedactCustomer borra los mensajes y luego las sesiones del cliente en la
// tienda. El orden mensajes-antes-que-sesiones es obligatorio por integridad
// referencial. Reinvocar tras un borrado exitoso no encuentra filas y
// termina trivialmente bien.
func (s *LifecycleService) RedactCustomer(ctx context.Context, shopDomain, customerEmail string) error {
	store, err := s.findStore(ctx, shopDomain)
	if err != nil {
		return err
	}
	if store == nil || strings.TrimSpace(customerEmail) == "" {
		return nil
	}

	sessions, err := s.sessions.ListByStoreAndEmail(ctx, store.ID, customerEmail)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	var deletedMessages int64
	for _, session := range sessions {
		count, err := s.messages.DeleteBySession(ctx, session.ID)
		if err != nil {
			return fmt.Errorf("delete messages: %w", err)
		}
		deletedMessages += count

		if err := s.sessions.DeleteByID(ctx, session.ID); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}

	s.logger.Info("customer data deleted",
		zap.String("shop", shopDomain),
		zap.String("email", customerEmail),
		zap.Int("sessions_deleted", len(sessions)),
		zap.Int64("messages_deleted", deletedMessages),
	)
	return nil
}

// RedactShop borra todos los datos de la tienda en orden estricto de
// dependencias: mensajes, sesiones, FAQs, analytics, automations, settings,
// suscripciones y por ultimo el registro de la tienda. Violar este orden
// deja referencias colgantes o datos huerfanos segun el motor.
func (s *LifecycleService) RedactShop(ctx context.Context, shopDomain string) error {
	store, err := s.findStore(ctx, shopDomain)
	if err != nil {
		return err
	}
	if store == nil {
		return nil
	}

	deletedMessages, err := s.messages.DeleteByStore(ctx, store.ID)
	if err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	deletedSessions, err := s.sessions.DeleteByStore(ctx, store.ID)
	if err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	deletedFAQs, err := s.faqs.DeleteByStore(ctx, store.ID)
	if err != nil {
		return fmt.Errorf("delete faqs: %w", err)
	}
	if _, err := s.analytics.DeleteByStore(ctx, store.ID); err != nil {
		return fmt.Errorf("delete analytics: %w", err)
	}
	if _, err := s.automations.DeleteByStore(ctx, store.ID); err != nil {
		return fmt.Errorf("delete automations: %w", err)
	}
	if _, err := s.settings.DeleteByStore(ctx, store.ID); err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	if _, err := s.subscriptions.DeleteByStore(ctx, store.ID); err != nil {
		return fmt.Errorf("delete subscriptions: %w", err)
	}
	if err := s.stores.Delete(ctx, store.ID); err != nil {
		return fmt.Errorf("delete store: %w", err)
	}

	s.logger.Info("shop data completely deleted",
		zap.String("shop", shopDomain),
		zap.String("store_id", store.ID),
		zap.Int64("messages_deleted", deletedMessages),
		zap.Int64("sessions_deleted", deletedSessions),
		zap.Int64("faqs_deleted", deletedFAQs),
	)
	return nil
}

func (s *LifecycleService) findStore(ctx context.Context, shopDomain string) (*domain.Store, error) {
	shopDomain = NormalizeShopDomain(shopDomain)
	if shopDomain == "" {
		return nil, nil
	}
	store, err := s.stores.GetByDomain(ctx, shopDomain)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get store: %w", err)
	}
	return &store, nil
}
