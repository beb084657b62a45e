package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/jackc/pgx/v5"
	pgvector "github.com/pgvector/pgvector-go"

	"shopchat-ai/internal/domain"
	"shopchat-ai/internal/repository"
)

type mockStoreRepo struct {
	byDomain map[string]domain.Store
	byID     map[string]domain.Store
}

func newMockStoreRepo() *mockStoreRepo {
	return &mockStoreRepo{
		byDomain: make(map[string]domain.Store),
		byID:     make(map[string]domain.Store),
	}
}

func (m *mockStoreRepo) put(store domain.Store) {
	m.byDomain[store.ShopDomain] = store
	m.byID[store.ID] = store
}

func (m *mockStoreRepo) CreateIfAbsent(_ context.Context, store domain.Store) (bool, error) {
	if _, ok := m.byDomain[store.ShopDomain]; ok {
		return false, nil
	}
	m.put(store)
	return true, nil
}

func (m *mockStoreRepo) GetByDomain(_ context.Context, shopDomain string) (domain.Store, error) {
	store, ok := m.byDomain[shopDomain]
	if !ok {
		return domain.Store{}, pgx.ErrNoRows
	}
	return store, nil
}

func (m *mockStoreRepo) GetByID(_ context.Context, id string) (domain.Store, error) {
	store, ok := m.byID[id]
	if !ok {
		return domain.Store{}, pgx.ErrNoRows
	}
	return store, nil
}

func (m *mockStoreRepo) UpdatePlan(_ context.Context, id, plan, billingStatus string) error {
	store, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	store.Plan = plan
	store.BillingStatus = billingStatus
	m.put(store)
	return nil
}

func (m *mockStoreRepo) UpdateAPITokenHash(_ context.Context, id, hash string) error {
	store, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	store.APITokenHash = hash
	m.put(store)
	return nil
}

func (m *mockStoreRepo) Delete(_ context.Context, id string) error {
	store, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(m.byDomain, store.ShopDomain)
	delete(m.byID, id)
	return nil
}

type mockSessionRepo struct {
	sessions map[string]domain.ChatSession
	order    []string

	createErr error
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]domain.ChatSession)}
}

func (m *mockSessionRepo) Create(_ context.Context, session domain.ChatSession) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.sessions[session.ID] = session
	m.order = append(m.order, session.ID)
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (domain.ChatSession, error) {
	session, ok := m.sessions[id]
	if !ok {
		return domain.ChatSession{}, pgx.ErrNoRows
	}
	return session, nil
}

func (m *mockSessionRepo) Touch(_ context.Context, id, sentiment string, at time.Time) error {
	session, ok := m.sessions[id]
	if !ok {
		return pgx.ErrNoRows
	}
	session.LastActivityAt = at
	if sentiment != "" {
		session.Sentiment = sentiment
	}
	m.sessions[id] = session
	return nil
}

func (m *mockSessionRepo) ListByStoreAndEmail(_ context.Context, storeID, customerEmail string) ([]domain.ChatSession, error) {
	var out []domain.ChatSession
	for _, id := range m.order {
		session, ok := m.sessions[id]
		if ok && session.StoreID == storeID && session.CustomerEmail == customerEmail {
			out = append(out, session)
		}
	}
	return out, nil
}

func (m *mockSessionRepo) CountByStore(_ context.Context, storeID string) (int64, error) {
	var n int64
	for _, session := range m.sessions {
		if session.StoreID == storeID {
			n++
		}
	}
	return n, nil
}

func (m *mockSessionRepo) DeleteByID(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionRepo) DeleteByStore(_ context.Context, storeID string) (int64, error) {
	var n int64
	for id, session := range m.sessions {
		if session.StoreID == storeID {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

type mockMessageRepo struct {
	messages []domain.ChatMessage

	createErr error
	deleteErr error
}

func (m *mockMessageRepo) Create(_ context.Context, message domain.ChatMessage) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.messages = append(m.messages, message)
	return nil
}

func (m *mockMessageRepo) ListBySessionID(_ context.Context, sessionID string) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepo) ListRecentByStore(_ context.Context, storeID string, limit int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for i := len(m.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if m.messages[i].StoreID == storeID {
			out = append(out, m.messages[i])
		}
	}
	return out, nil
}

func (m *mockMessageRepo) CountByStore(_ context.Context, storeID string) (int64, error) {
	var n int64
	for _, msg := range m.messages {
		if msg.StoreID == storeID {
			n++
		}
	}
	return n, nil
}

func (m *mockMessageRepo) CountByStoreSince(_ context.Context, storeID string, since time.Time) (int64, error) {
	var n int64
	for _, msg := range m.messages {
		if msg.StoreID == storeID && !msg.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *mockMessageRepo) DeleteBySession(_ context.Context, sessionID string) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	var kept []domain.ChatMessage
	var n int64
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			n++
			continue
		}
		kept = append(kept, msg)
	}
	m.messages = kept
	return n, nil
}

func (m *mockMessageRepo) DeleteByStore(_ context.Context, storeID string) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	var kept []domain.ChatMessage
	var n int64
	for _, msg := range m.messages {
		if msg.StoreID == storeID {
			n++
			continue
		}
		kept = append(kept, msg)
	}
	m.messages = kept
	return n, nil
}

type mockFAQRepo struct {
	faqs []domain.FAQ
}

func (m *mockFAQRepo) Create(_ context.Context, faq domain.FAQ) error {
	m.faqs = append(m.faqs, faq)
	return nil
}

func (m *mockFAQRepo) GetByID(_ context.Context, id string) (domain.FAQ, error) {
	for _, faq := range m.faqs {
		if faq.ID == id {
			return faq, nil
		}
	}
	return domain.FAQ{}, pgx.ErrNoRows
}

func (m *mockFAQRepo) ListByStore(_ context.Context, storeID string) ([]domain.FAQ, error) {
	var out []domain.FAQ
	for _, faq := range m.faqs {
		if faq.StoreID == storeID {
			out = append(out, faq)
		}
	}
	return out, nil
}

func (m *mockFAQRepo) ListEnabledByStore(_ context.Context, storeID string, limit int) ([]domain.FAQ, error) {
	var out []domain.FAQ
	for _, faq := range m.faqs {
		if faq.StoreID == storeID && faq.Enabled && len(out) < limit {
			out = append(out, faq)
		}
	}
	return out, nil
}

func (m *mockFAQRepo) SearchByEmbedding(_ context.Context, storeID string, query pgvector.Vector, k int) ([]domain.FAQ, error) {
	return nil, nil
}

func (m *mockFAQRepo) Update(_ context.Context, faq domain.FAQ) error {
	for i := range m.faqs {
		if m.faqs[i].ID == faq.ID {
			m.faqs[i] = faq
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *mockFAQRepo) CountEnabledByStore(_ context.Context, storeID string) (int64, error) {
	var n int64
	for _, faq := range m.faqs {
		if faq.StoreID == storeID && faq.Enabled {
			n++
		}
	}
	return n, nil
}

func (m *mockFAQRepo) Delete(_ context.Context, id string) error {
	for i := range m.faqs {
		if m.faqs[i].ID == id {
			m.faqs = append(m.faqs[:i], m.faqs[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *mockFAQRepo) DeleteByStore(_ context.Context, storeID string) (int64, error) {
	var kept []domain.FAQ
	var n int64
	for _, faq := range m.faqs {
		if faq.StoreID == storeID {
			n++
			continue
		}
		kept = append(kept, faq)
	}
	m.faqs = kept
	return n, nil
}

type mockAutomationRepo struct {
	rules []domain.Automation
}

func (m *mockAutomationRepo) Create(_ context.Context, automation domain.Automation) error {
	m.rules = append(m.rules, automation)
	return nil
}

func (m *mockAutomationRepo) ListByStore(_ context.Context, storeID string) ([]domain.Automation, error) {
	var out []domain.Automation
	for _, rule := range m.rules {
		if rule.StoreID == storeID {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (m *mockAutomationRepo) ListEnabledByStore(_ context.Context, storeID string) ([]domain.Automation, error) {
	var out []domain.Automation
	for _, rule := range m.rules {
		if rule.StoreID == storeID && rule.Enabled {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (m *mockAutomationRepo) Update(_ context.Context, automation domain.Automation) error {
	for i := range m.rules {
		if m.rules[i].ID == automation.ID {
			m.rules[i] = automation
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *mockAutomationRepo) Delete(_ context.Context, id string) error {
	for i := range m.rules {
		if m.rules[i].ID == id {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *mockAutomationRepo) DeleteByStore(_ context.Context, storeID string) (int64, error) {
	var kept []domain.Automation
	var n int64
	for _, rule := range m.rules {
		if rule.StoreID == storeID {
			n++
			continue
		}
		kept = append(kept, rule)
	}
	m.rules = kept
	return n, nil
}

type mockAnalyticsRepo struct {
	events []domain.AnalyticsEvent
}

func (m *mockAnalyticsRepo) Record(_ context.Context, event domain.AnalyticsEvent) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockAnalyticsRepo) CountByStore(_ context.Context, storeID, eventType string) (int64, error) {
	var n int64
	for _, event := range m.events {
		if event.StoreID == storeID && event.EventType == eventType {
			n++
		}
	}
	return n, nil
}

func (m *mockAnalyticsRepo) DeleteByStore(_ context.Context, storeID string) (int64, error) {
	var kept []domain.AnalyticsEvent
	var n int64
	for _, event := range m.events {
		if event.StoreID == storeID {
			n++
			continue
		}
		kept = append(kept, event)
	}
	m.events = kept
	return n, nil
}

type mockSettingsRepo struct {
	byStore map[string]domain.WidgetSettings
}

func newMockSettingsRepo() *mockSettingsRepo {
	return &mockSettingsRepo{byStore: make(map[string]domain.WidgetSettings)}
}

func (m *mockSettingsRepo) GetByStore(_ context.Context, storeID string) (domain.WidgetSettings, error) {
	settings, ok := m.byStore[storeID]
	if !ok {
		return domain.WidgetSettings{}, pgx.ErrNoRows
	}
	return settings, nil
}

func (m *mockSettingsRepo) Upsert(_ context.Context, settings domain.WidgetSettings) error {
	m.byStore[settings.StoreID] = settings
	return nil
}

func (m *mockSettingsRepo) DeleteByStore(_ context.Context, storeID string) (int64, error) {
	if _, ok := m.byStore[storeID]; !ok {
		return 0, nil
	}
	delete(m.byStore, storeID)
	return 1, nil
}

type mockSubscriptionRepo struct {
	byStore map[string]domain.Subscription
}

func newMockSubscriptionRepo() *mockSubscriptionRepo {
	return &mockSubscriptionRepo{byStore: make(map[string]domain.Subscription)}
}

func (m *mockSubscriptionRepo) GetByStore(_ context.Context, storeID string) (domain.Subscription, error) {
	sub, ok := m.byStore[storeID]
	if !ok {
		return domain.Subscription{}, pgx.ErrNoRows
	}
	return sub, nil
}

func (m *mockSubscriptionRepo) Upsert(_ context.Context, sub domain.Subscription) error {
	m.byStore[sub.StoreID] = sub
	return nil
}

func (m *mockSubscriptionRepo) DeleteByStore(_ context.Context, storeID string) (int64, error) {
	if _, ok := m.byStore[storeID]; !ok {
		return 0, nil
	}
	delete(m.byStore, storeID)
	return 1, nil
}

var (
	_ repository.StoreRepository        = (*mockStoreRepo)(nil)
	_ repository.SessionRepository      = (*mockSessionRepo)(nil)
	_ repository.MessageRepository      = (*mockMessageRepo)(nil)
	_ repository.FAQRepository          = (*mockFAQRepo)(nil)
	_ repository.AutomationRepository   = (*mockAutomationRepo)(nil)
	_ repository.AnalyticsRepository    = (*mockAnalyticsRepo)(nil)
	_ repository.SettingsRepository     = (*mockSettingsRepo)(nil)
	_ repository.SubscriptionRepository = (*mockSubscriptionRepo)(nil)
)

func performRequest(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func signPayload(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
