package agenthub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	httpadapter "github.com/agenthub/agenthub/internal/adapters/http"
	"github.com/agenthub/agenthub/internal/config"
	"github.com/agenthub/agenthub/internal/logging"
	"github.com/agenthub/agenthub/internal/ratelimit"
	"github.com/agenthub/agenthub/internal/responder"
	"github.com/agenthub/agenthub/internal/runtime"
	"github.com/agenthub/agenthub/pkg/adapters/memory"
	"github.com/agenthub/agenthub/pkg/adapters/openai"
	redisadapter "github.com/agenthub/agenthub/pkg/adapters/redis"
	"github.com/agenthub/agenthub/pkg/domain"
	"github.com/agenthub/agenthub/pkg/observability"
	"github.com/agenthub/agenthub/pkg/persistence/middleware"
	"github.com/agenthub/agenthub/pkg/ports"
	"github.com/agenthub/agenthub/pkg/session"
)

// compactionInterval is how often idle rate-limit windows are pruned.
const compactionInterval = 5 * time.Minute

// Hub is the high-level entry point: it wires the responders, the
// executor, persistence and the rate limiter from one configuration.
type Hub struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *observability.Metrics

	executor *runtime.Executor
	governor *ratelimit.Governor
	sessions *session.Manager
	history  *middleware.History

	completion ports.CompletionService
	redis      *goredis.Client
	stop       chan struct{}
}

// Option configures the Hub.
type Option func(*Hub)

// WithLogger sets the application logger. The default is built from the
// configured log level.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithCompletion injects a completion service, bypassing the OpenAI
// client the configuration would build. Used by tests and embedders.
func WithCompletion(svc ports.CompletionService) Option {
	return func(h *Hub) {
		h.completion = svc
	}
}

// New wires a Hub from the configuration.
func New(cfg config.Config, opts ...Option) (*Hub, error) {
	h := &Hub{
		cfg:      cfg,
		registry: prometheus.NewRegistry(),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logging.New(logging.ParseLevel(cfg.Log.Level))
	}
	h.metrics = observability.New(h.registry)

	if h.completion == nil {
		h.completion = openai.NewClient(cfg.Completion.BaseURL, cfg.Completion.APIKey,
			openai.WithModel(cfg.Completion.Model),
			openai.WithTemperature(cfg.Completion.Temperature),
			openai.WithTimeout(cfg.Completion.Timeout),
		)
	}

	var store ports.StateStore
	var sessionOpts []session.Option
	switch cfg.Store.Backend {
	case "redis":
		h.redis = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = redisadapter.NewFromClient(h.redis, redisadapter.WithTTL(cfg.Store.TTL))
		sessionOpts = append(sessionOpts,
			session.WithLocker(redisadapter.NewLocker(h.redis, "agenthub:lock:")))
		if cfg.Completion.CacheTTL > 0 {
			h.completion = redisadapter.NewCompletionCache(h.redis, h.completion,
				redisadapter.WithCacheTTL(cfg.Completion.CacheTTL),
				redisadapter.WithCacheLogger(h.logger),
			)
		}
	case "memory":
		store = memory.NewStore()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if len(cfg.Store.RedactKeys) > 0 {
		store = middleware.NewRedaction(cfg.Store.RedactKeys)(store)
	}
	h.history = middleware.NewHistory(store, cfg.Store.HistoryLimit)

	sessionOpts = append(sessionOpts, session.WithLogger(h.logger))
	h.sessions = session.NewManager(h.history, sessionOpts...)

	h.governor = ratelimit.NewGovernor(
		ratelimit.WithWindow(cfg.RateLimit.Window),
		ratelimit.WithCapacity(cfg.RateLimit.Capacity),
		ratelimit.WithLogger(h.logger),
	)
	h.governor.StartCompaction(compactionInterval, h.stop)

	policy := policyFromConfig(cfg.Escalation)

	classifier, err := classifierFromConfig(cfg.Classifier)
	if err != nil {
		return nil, fmt.Errorf("invalid classifier config: %w", err)
	}

	h.executor = runtime.NewExecutor(h.governor, policy,
		runtime.WithLogger(h.logger),
		runtime.WithMetrics(h.metrics),
	)
	base := []responder.BaseOption{
		responder.WithLogger(h.logger),
		responder.WithMetrics(h.metrics),
	}
	h.executor.Register(responder.NewRouter(h.completion, classifier, base...))
	h.executor.Register(responder.NewProduct(h.completion, base...))
	h.executor.Register(responder.NewTechnical(h.completion, base...))
	h.executor.Register(responder.NewCustomerService(h.completion, base...))
	h.executor.Register(responder.NewFlightBooking(h.completion, base...))
	h.executor.Register(responder.NewHotelBooking(h.completion, base...))
	h.executor.Register(responder.NewCarRental(h.completion, base...))
	h.executor.Register(responder.NewExcursion(h.completion, base...))
	h.executor.Register(responder.NewHumanProxy(h.completion, base...))

	return h, nil
}

func policyFromConfig(esc config.Escalation) *runtime.Policy {
	policy := runtime.DefaultPolicy()
	policy.MaxErrors = esc.MaxErrors
	policy.MaxMessages = esc.MaxMessages
	policy.MaxTransfers = esc.MaxTransfers
	policy.MaxFailedAttempts = esc.MaxFailedAttempts
	if len(esc.FrustrationKeywords) > 0 {
		policy.Frustration = esc.FrustrationKeywords
	}
	if len(esc.SensitiveKeywords) > 0 {
		policy.Sensitive = esc.SensitiveKeywords
	}
	return policy
}

func classifierFromConfig(raw map[string]map[string]float64) (*responder.Classifier, error) {
	if len(raw) == 0 {
		return responder.NewClassifier(nil), nil
	}
	table, err := responder.CompilePatterns(raw)
	if err != nil {
		return nil, err
	}
	return responder.NewClassifier(table), nil
}

// Turn runs one user message through the dialog graph and persists the
// outcome.
func (h *Hub) Turn(ctx context.Context, userID, message string) (*domain.ConversationState, error) {
	return h.TurnMessages(ctx, userID,
		[]domain.Message{domain.NewMessage(domain.RoleUser, message)}, nil)
}

// TurnMessages runs a turn from a full or incremental message list plus
// optional residual context, as the API boundary delivers them. A list
// that replays the stored history is reconciled rather than duplicated.
// Persistence faults degrade: a failed load starts a fresh conversation
// and a failed save still answers the user; only rate limiting and
// responder wiring faults surface as errors.
func (h *Hub) TurnMessages(ctx context.Context, userID string, incoming []domain.Message, extra map[string]any) (*domain.ConversationState, error) {
	var out *domain.ConversationState
	err := h.sessions.WithLock(ctx, userID, func(ctx context.Context) error {
		state, err := h.sessions.Store().Load(ctx, userID)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrSessionNotFound):
			state = domain.NewState(userID)
			h.metrics.ActiveConversations.Inc()
		default:
			h.logger.Warn("state load failed, starting fresh", "user_id", userID, "err", err)
			state = domain.NewState(userID)
		}

		// A conversation parked at the terminal marker reopens at the
		// router when the user speaks again.
		if state.Terminal() {
			h.logger.Info("reopening terminal conversation", "user_id", userID)
			state.Next = domain.NodeRouter
		}

		state.Messages = mergeMessages(state.Messages, incoming)
		for k, v := range extra {
			state.Context.SetExtra(k, v)
		}

		next, err := h.executor.Turn(ctx, state)
		if err != nil {
			return err
		}

		if err := h.sessions.Store().Save(ctx, userID, next); err != nil {
			h.logger.Warn("state save failed, answer not persisted", "user_id", userID, "err", err)
		}
		out = next
		return nil
	})
	return out, err
}

// mergeMessages reconciles an incoming list with the stored history.
// Clients may send either just the new messages or the whole transcript;
// when the incoming list replays the stored one as a prefix, only its
// tail is appended.
func mergeMessages(existing, incoming []domain.Message) []domain.Message {
	if len(incoming) > len(existing) && replaysPrefix(existing, incoming) {
		incoming = incoming[len(existing):]
	}
	return append(existing, incoming...)
}

func replaysPrefix(existing, incoming []domain.Message) bool {
	if len(existing) == 0 {
		return false
	}
	for i, m := range existing {
		if incoming[i].Role != m.Role || incoming[i].Content != m.Content {
			return false
		}
	}
	return true
}

// EndSession deletes a user's conversation. Returns
// domain.ErrSessionNotFound when there is nothing to delete.
func (h *Hub) EndSession(ctx context.Context, userID string) error {
	return h.sessions.WithLock(ctx, userID, func(ctx context.Context) error {
		if _, err := h.sessions.Store().Load(ctx, userID); err != nil {
			return err
		}
		if err := h.sessions.Store().Delete(ctx, userID); err != nil {
			return err
		}
		h.metrics.ActiveConversations.Dec()
		return nil
	})
}

// History returns the recorded state snapshots for a user, oldest
// first.
func (h *Hub) History(userID string) []middleware.Snapshot {
	return h.history.Snapshots(userID)
}

// Sessions exposes the session manager, for embedders that drive
// persistence directly.
func (h *Hub) Sessions() *session.Manager {
	return h.sessions
}

// Handler returns the HTTP handler serving the JSON API and metrics.
func (h *Hub) Handler() http.Handler {
	return httpadapter.NewHandler(h,
		httpadapter.WithLogger(h.logger),
		httpadapter.WithMetricsRegistry(h.registry),
	)
}

// Close releases background resources. The Hub must not be used after.
func (h *Hub) Close() error {
	close(h.stop)
	if h.redis != nil {
		return h.redis.Close()
	}
	return nil
}
