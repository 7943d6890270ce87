package adapter

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/repository"
)

// Factory builds a concrete Adapter for one tenant's bot token.
type Factory func(botToken string) (Adapter, error)

// Supervisor owns the set of live per-tenant adapters, dispatching inbound
// events to a shared handler and isolating one tenant's platform errors
// from every other.
type Supervisor struct {
	log     zerolog.Logger
	factory Factory
	tenants repository.TenantRepository

	mu      sync.Mutex
	running map[uuid.UUID]*tenantPipeline
}

type tenantPipeline struct {
	adapter Adapter
	cancel  context.CancelFunc
}

// Handler is the shared pipeline every tenant's inbound events flow
// through; tenantID is injected by the supervisor before the mention gate
// and context middleware run.
type Handler func(ctx context.Context, tenantID uuid.UUID, ev InboundEvent)

func NewSupervisor(log zerolog.Logger, factory Factory, tenants repository.TenantRepository) *Supervisor {
	return &Supervisor{
		log:     log,
		factory: factory,
		tenants: tenants,
		running: make(map[uuid.UUID]*tenantPipeline),
	}
}

// Start loads every active tenant and spawns its pipeline. If none exist
// and fallbackToken is non-empty, a default tenant is created first.
func (s *Supervisor) Start(ctx context.Context, fallbackToken string, handle Handler) error {
	tenants, err := s.tenants.ListActive(ctx)
	if err != nil {
		return err
	}

	if len(tenants) == 0 && fallbackToken != "" {
		t, err := s.tenants.Create(ctx, domain.Tenant{Name: "default", BotToken: fallbackToken, IsActive: true})
		if err != nil {
			return err
		}
		tenants = []domain.Tenant{t}
	}

	for _, t := range tenants {
		if err := s.spawn(ctx, t, handle); err != nil {
			s.log.Error().Err(err).Str("tenant_id", t.ID.String()).Msg("tenant identity resolution failed, skipping")
		}
	}
	return nil
}

func (s *Supervisor) spawn(ctx context.Context, t domain.Tenant, handle Handler) error {
	ad, err := s.factory(t.BotToken)
	if err != nil {
		return err
	}

	username, err := ad.Identify(ctx)
	if err != nil {
		return err
	}
	if username != t.BotUsername {
		t.BotUsername = username
		// Best-effort: a failed write here never blocks the pipeline from
		// starting, it just leaves the stale username until next restart.
		if err := s.tenants.UpdateUsername(ctx, t.ID, username); err != nil {
			s.log.Warn().Err(err).Str("tenant_id", t.ID.String()).Msg("persisting discovered bot username failed")
		}
	}

	pipelineCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.running[t.ID] = &tenantPipeline{adapter: ad, cancel: cancel}
	s.mu.Unlock()

	go func() {
		err := ad.Consume(pipelineCtx, func(ev InboundEvent) {
			handle(pipelineCtx, t.ID, ev)
		})
		if err != nil && pipelineCtx.Err() == nil {
			s.log.Error().Err(err).Str("tenant_id", t.ID.String()).Msg("adapter consume loop exited")
		}
	}()
	return nil
}

// AddTenant validates token against the platform, persists a new Tenant,
// and spawns its pipeline without restarting the process.
func (s *Supervisor) AddTenant(ctx context.Context, name, token string, handle Handler) (domain.Tenant, error) {
	ad, err := s.factory(token)
	if err != nil {
		return domain.Tenant{}, domain.Validation("invalid bot token")
	}
	username, err := ad.Identify(ctx)
	if err != nil {
		return domain.Tenant{}, domain.Validation("couldn't verify this token with the platform")
	}

	t, err := s.tenants.Create(ctx, domain.Tenant{Name: name, BotToken: token, BotUsername: username, IsActive: true})
	if err != nil {
		return domain.Tenant{}, err
	}

	s.mu.Lock()
	s.running[t.ID] = &tenantPipeline{adapter: ad}
	s.mu.Unlock()

	pipelineCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.running[t.ID].cancel = cancel
	s.mu.Unlock()

	go func() {
		_ = ad.Consume(pipelineCtx, func(ev InboundEvent) { handle(pipelineCtx, t.ID, ev) })
	}()

	return t, nil
}

// Send delivers an outbound message through tenantID's running adapter.
// Returns an error if the tenant has no live pipeline (never started, or
// removed).
func (s *Supervisor) Send(ctx context.Context, tenantID uuid.UUID, msg OutboundMessage) error {
	s.mu.Lock()
	p, ok := s.running[tenantID]
	s.mu.Unlock()
	if !ok {
		return domain.NotFound("no running adapter for tenant")
	}
	return p.adapter.Send(ctx, msg)
}

// RemoveTenant marks a tenant inactive and stops consuming its updates.
func (s *Supervisor) RemoveTenant(ctx context.Context, id uuid.UUID) error {
	if err := s.tenants.SetActive(ctx, id, false); err != nil {
		return err
	}

	s.mu.Lock()
	p, ok := s.running[id]
	delete(s.running, id)
	s.mu.Unlock()

	if ok {
		if p.cancel != nil {
			p.cancel()
		}
		return p.adapter.Close()
	}
	return nil
}

// Shutdown cancels every running tenant pipeline and closes its adapter.
func (s *Supervisor) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.running {
		if p.cancel != nil {
			p.cancel()
		}
		_ = p.adapter.Close()
	}
	s.running = make(map[uuid.UUID]*tenantPipeline)
}
