package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"shopchat-ai/internal/domain"
	"shopchat-ai/internal/llm"
	"shopchat-ai/internal/repository"
	"shopchat-ai/internal/service"
)

// AdminHandler expone el API JSON del panel del merchant: auth, metricas,
// FAQs, automations, settings del widget y plan de facturacion.
type AdminHandler struct {
	logger        *zap.Logger
	stores        repository.StoreRepository
	sessions      repository.SessionRepository
	messages      repository.MessageRepository
	faqs          repository.FAQRepository
	automations   repository.AutomationRepository
	settings      repository.SettingsRepository
	subscriptions repository.SubscriptionRepository
	jwtSvc        *service.JWTService
	embedder      llm.Embedder
}

func NewAdminHandler(
	logger *zap.Logger,
	stores repository.StoreRepository,
	sessions repository.SessionRepository,
	messages repository.MessageRepository,
	faqs repository.FAQRepository,
	automations repository.AutomationRepository,
	settings repository.SettingsRepository,
	subscriptions repository.SubscriptionRepository,
	jwtSvc *service.JWTService,
	embedder llm.Embedder,
) *AdminHandler {
	return &AdminHandler{
		logger:        logger,
		stores:        stores,
		sessions:      sessions,
		messages:      messages,
		faqs:          faqs,
		automations:   automations,
		settings:      settings,
		subscriptions: subscriptions,
		jwtSvc:        jwtSvc,
		embedder:      embedder,
	}
}

// Auth maneja POST /admin/auth: canjea el API token de la tienda por JWTs.
func (h *AdminHandler) Auth(c *gin.Context) {
	var req struct {
		Shop     string `json:"shop" binding:"required"`
		APIToken string `json:"api_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	store, err := h.stores.GetByDomain(c.Request.Context(), service.NormalizeShopDomain(req.Shop))
	if err != nil || store.APITokenHash == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(store.APITokenHash), []byte(req.APIToken)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	pair, err := h.jwtSvc.GeneratePair(store)
	if err != nil {
		h.logger.Error("generate token pair failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not authenticate"})
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Refresh maneja POST /admin/refresh.
func (h *AdminHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	pair, err := h.jwtSvc.RefreshPair(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Stats maneja GET /admin/stats: los numeros del dashboard.
func (h *AdminHandler) Stats(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}
	ctx := c.Request.Context()

	store, err := h.stores.GetByID(ctx, claims.StoreID)
	if err != nil {
		h.logger.Error("get store failed", zap.Error(err), zap.String("store_id", claims.StoreID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}

	totalChats, err := h.messages.CountByStore(ctx, store.ID)
	if err != nil {
		h.logger.Error("count messages failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	totalSessions, err := h.sessions.CountByStore(ctx, store.ID)
	if err != nil {
		h.logger.Error("count sessions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	activeFAQs, err := h.faqs.CountEnabledByStore(ctx, store.ID)
	if err != nil {
		h.logger.Error("count faqs failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}

	now := time.Now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	todayChats, err := h.messages.CountByStoreSince(ctx, store.ID, todayStart)
	if err != nil {
		h.logger.Error("count today messages failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}

	recentChats, err := h.messages.ListRecentByStore(ctx, store.ID, 3)
	if err != nil {
		h.logger.Error("list recent messages failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shop":           store.ShopDomain,
		"plan":           store.Plan,
		"total_chats":    totalChats,
		"total_sessions": totalSessions,
		"active_faqs":    activeFAQs,
		"today_chats":    todayChats,
		"recent_chats":   recentChats,
		"is_new_user":    totalChats == 0,
	})
}

// ListFAQs maneja GET /admin/faqs.
func (h *AdminHandler) ListFAQs(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	faqs, err := h.faqs.ListByStore(c.Request.Context(), claims.StoreID)
	if err != nil {
		h.logger.Error("list faqs failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list faqs"})
		return
	}
	if faqs == nil {
		faqs = []domain.FAQ{}
	}
	c.JSON(http.StatusOK, gin.H{"faqs": faqs})
}

// CreateFAQ maneja POST /admin/faqs.
func (h *AdminHandler) CreateFAQ(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}
	var req struct {
		Question string `json:"question" binding:"required"`
		Answer   string `json:"answer" binding:"required"`
		Enabled  *bool  `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	now := time.Now().UTC()
	faq := domain.FAQ{
		ID:        uuid.NewString(),
		StoreID:   claims.StoreID,
		Question:  req.Question,
		Answer:    req.Answer,
		Enabled:   enabled,
		Embedding: h.embedFAQ(c, req.Question, req.Answer),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.faqs.Create(c.Request.Context(), faq); err != nil {
		h.logger.Error("create faq failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create faq"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"faq": faq})
}

// UpdateFAQ maneja PUT /admin/faqs/:id.
func (h *AdminHandler) UpdateFAQ(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}
	var req struct {
		Question string `json:"question" binding:"required"`
		Answer   string `json:"answer" binding:"required"`
		Enabled  *bool  `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	faq, err := h.faqs.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && faq.StoreID != claims.StoreID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "faq not found"})
		return
	}
	if err != nil {
		h.logger.Error("get faq failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update faq"})
		return
	}

	faq.Question = req.Question
	faq.Answer = req.Answer
	if req.Enabled != nil {
		faq.Enabled = *req.Enabled
	}
	faq.Embedding = h.embedFAQ(c, req.Question, req.Answer)

	if err := h.faqs.Update(c.Request.Context(), faq); err != nil {
		h.logger.Error("update faq failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update faq"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"faq": faq})
}

// DeleteFAQ maneja DELETE /admin/faqs/:id.
func (h *AdminHandler) DeleteFAQ(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	faq, err := h.faqs.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && faq.StoreID != claims.StoreID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "faq not found"})
		return
	}
	if err != nil {
		h.logger.Error("get faq failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete faq"})
		return
	}

	if err := h.faqs.Delete(c.Request.Context(), faq.ID); err != nil {
		h.logger.Error("delete faq failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete faq"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListAutomations maneja GET /admin/automations.
func (h *AdminHandler) ListAutomations(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	automations, err := h.automations.ListByStore(c.Request.Context(), claims.StoreID)
	if err != nil {
		h.logger.Error("list automations failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list automations"})
		return
	}
	if automations == nil {
		automations = []domain.Automation{}
	}
	c.JSON(http.StatusOK, gin.H{"automations": automations})
}

// CreateAutomation maneja POST /admin/automations.
func (h *AdminHandler) CreateAutomation(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}
	var req struct {
		Keyword string `json:"keyword" binding:"required"`
		Reply   string `json:"reply" binding:"required"`
		Enabled *bool  `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	automation := domain.Automation{
		ID:        uuid.NewString(),
		StoreID:   claims.StoreID,
		Keyword:   req.Keyword,
		Reply:     req.Reply,
		Enabled:   enabled,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.automations.Create(c.Request.Context(), automation); err != nil {
		h.logger.Error("create automation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create automation"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"automation": automation})
}

// DeleteAutomation maneja DELETE /admin/automations/:id.
func (h *AdminHandler) DeleteAutomation(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	automations, err := h.automations.ListByStore(c.Request.Context(), claims.StoreID)
	if err != nil {
		h.logger.Error("list automations failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete automation"})
		return
	}
	id := c.Param("id")
	for _, automation := range automations {
		if automation.ID == id {
			if err := h.automations.Delete(c.Request.Context(), id); err != nil {
				h.logger.Error("delete automation failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete automation"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "automation not found"})
}

// GetSettings maneja GET /admin/settings.
func (h *AdminHandler) GetSettings(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	settings, err := h.settings.GetByStore(c.Request.Context(), claims.StoreID)
	if errors.Is(err, pgx.ErrNoRows) {
		settings = domain.DefaultWidgetSettings(claims.StoreID)
	} else if err != nil {
		h.logger.Error("get settings failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings maneja PUT /admin/settings.
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}
	var req struct {
		PrimaryColor string `json:"primary_color" binding:"required"`
		Greeting     string `json:"greeting" binding:"required"`
		Position     string `json:"position" binding:"required"`
		Enabled      *bool  `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	settings := domain.WidgetSettings{
		StoreID:      claims.StoreID,
		PrimaryColor: req.PrimaryColor,
		Greeting:     req.Greeting,
		Position:     req.Position,
		Enabled:      *req.Enabled,
	}
	if err := h.settings.Upsert(c.Request.Context(), settings); err != nil {
		h.logger.Error("update settings failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// GetBilling maneja GET /admin/billing.
func (h *AdminHandler) GetBilling(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	sub, err := h.subscriptions.GetByStore(c.Request.Context(), claims.StoreID)
	if errors.Is(err, pgx.ErrNoRows) {
		sub = domain.Subscription{
			StoreID: claims.StoreID,
			Plan:    domain.PlanFree,
			Status:  domain.SubscriptionStatusActive,
		}
	} else if err != nil {
		h.logger.Error("get subscription failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load billing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// UpdateBilling maneja PUT /admin/billing: cambia el plan registrado.
// El cobro real lo ejecuta la plataforma; aqui solo se persiste el estado.
func (h *AdminHandler) UpdateBilling(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}
	var req struct {
		Plan string `json:"plan" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !domain.ValidPlan(req.Plan) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan"})
		return
	}

	now := time.Now().UTC()
	sub := domain.Subscription{
		ID:          uuid.NewString(),
		StoreID:     claims.StoreID,
		Plan:        req.Plan,
		Status:      domain.SubscriptionStatusActive,
		ActivatedAt: now,
		UpdatedAt:   now,
	}
	if err := h.subscriptions.Upsert(c.Request.Context(), sub); err != nil {
		h.logger.Error("upsert subscription failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update billing"})
		return
	}
	if err := h.stores.UpdatePlan(c.Request.Context(), claims.StoreID, req.Plan, domain.SubscriptionStatusActive); err != nil {
		h.logger.Error("update store plan failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update billing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// embedFAQ calcula el embedding de la FAQ cuando hay embedder configurado.
// Un fallo no bloquea el guardado: la FAQ queda sin vector y participa solo
// del listado simple.
func (h *AdminHandler) embedFAQ(c *gin.Context, question, answer string) *pgvector.Vector {
	if h.embedder == nil {
		return nil
	}
	values, err := h.embedder.Embed(c.Request.Context(), question+"\n"+answer)
	if err != nil || len(values) == 0 {
		h.logger.Warn("embed faq failed", zap.Error(err))
		return nil
	}
	vec := pgvector.NewVector(values)
	return &vec
}
