// Package bot wires the mention gate, context middleware, and domain
// services into the single inbound-event handler the adapter supervisor
// drives per tenant: adapter -> mention gate -> FSM wizard continuation ->
// context middleware -> command/quick-command dispatch -> domain service.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/renohub/core/internal/adapter"
	"github.com/renohub/core/internal/aiclient"
	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/fsm"
	"github.com/renohub/core/internal/middleware"
	"github.com/renohub/core/internal/rag"
	"github.com/renohub/core/internal/repository"
	"github.com/renohub/core/internal/service/budget"
	"github.com/renohub/core/internal/service/notification"
	"github.com/renohub/core/internal/service/project"
	"github.com/renohub/core/internal/service/report"
	"github.com/renohub/core/internal/service/role"
	"github.com/renohub/core/internal/service/stage"
	"github.com/renohub/core/internal/skills"
)

const deadlineLookahead = 14 * 24 * time.Hour

// Sender delivers a reply through a tenant's live adapter. adapter.Supervisor
// satisfies this.
type Sender interface {
	Send(ctx context.Context, tenantID uuid.UUID, msg adapter.OutboundMessage) error
}

// Deliverer hands a built Notification off for delivery to its recipients.
// NotificationDeliverer satisfies this, the same instance the scheduler uses.
type Deliverer interface {
	Deliver(ctx context.Context, n domain.Notification) error
}

// Pipeline holds every dependency the inbound-event handler needs. Its
// Handle method has the exact shape of adapter.Handler, so a Supervisor
// can drive it directly.
type Pipeline struct {
	log zerolog.Logger

	gate     middleware.MentionGate
	context  middleware.Context
	resolver middleware.Resolver

	users      repository.UserRepository
	projects   repository.ProjectRepository
	roles      repository.ProjectRoleRepository
	stages     repository.StageRepository
	messages   repository.MessageRepository
	embeddings repository.EmbeddingRepository

	budget     budget.Service
	projectSvc project.Service
	roleSvc    role.Service
	stageSvc   stage.Service
	notify     notification.Service

	rag      rag.Engine
	embedder rag.EmbeddingProvider
	skills   skills.Registry
	chat     aiclient.Client
	sender   Sender
	deliver  Deliverer

	router *fsm.Router

	chatMu sync.Mutex
	chats  map[string]*rag.ChatSession
}

func NewPipeline(
	log zerolog.Logger,
	gate middleware.MentionGate,
	ctxMW middleware.Context,
	resolver middleware.Resolver,
	users repository.UserRepository,
	projects repository.ProjectRepository,
	roles repository.ProjectRoleRepository,
	stages repository.StageRepository,
	messages repository.MessageRepository,
	embeddings repository.EmbeddingRepository,
	budgetSvc budget.Service,
	projectSvc project.Service,
	roleSvc role.Service,
	stageSvc stage.Service,
	notifySvc notification.Service,
	ragEngine rag.Engine,
	embedder rag.EmbeddingProvider,
	skillRegistry skills.Registry,
	chat aiclient.Client,
	sender Sender,
	deliver Deliverer,
	fsmStore fsm.Store,
) *Pipeline {
	p := &Pipeline{
		log: log, gate: gate, context: ctxMW, resolver: resolver,
		users: users, projects: projects, roles: roles, stages: stages, messages: messages, embeddings: embeddings,
		budget: budgetSvc, projectSvc: projectSvc, roleSvc: roleSvc, stageSvc: stageSvc, notify: notifySvc,
		rag: ragEngine, embedder: embedder, skills: skillRegistry, chat: chat, sender: sender, deliver: deliver,
		router: fsm.NewRouter(fsmStore),
		chats:  make(map[string]*rag.ChatSession),
	}
	p.registerWizards()
	return p
}

// Handle matches adapter.Handler: the supervisor injects tenantID once per
// inbound event, before the mention gate and context middleware run. Every
// inbound event is ingested (stored, and indexed when a project resolves
// for its chat) before the mention gate decides whether it also gets a
// reply — an undirected group message still feeds the project's history
// even though nothing talks back.
func (p *Pipeline) Handle(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent) {
	telegramID, err := strconv.ParseInt(ev.UserPlatformID, 10, 64)
	if err != nil {
		p.log.Warn().Str("user_platform_id", ev.UserPlatformID).Msg("bot: non-numeric platform id, skipping")
		return
	}

	user, err := p.users.Upsert(ctx, domain.User{TelegramID: &telegramID, FullName: ev.UserFullName, IsBotStarted: true})
	if err != nil {
		p.log.Error().Err(err).Msg("bot: user upsert failed")
		return
	}

	p.ingest(ctx, ev, user)

	if !p.gate.Passes(toGateUpdate(ev)) {
		return
	}

	text := strings.TrimSpace(ev.Text)

	if inFlow, err := p.router.InFlow(ctx, ev.Platform, ev.ChatID, ev.UserPlatformID); err == nil && inFlow {
		reply, err := p.router.Dispatch(ctx, ev.Platform, ev.ChatID, ev.UserPlatformID, text)
		if err != nil {
			p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
			return
		}
		if reply != "" {
			p.reply(ctx, tenantID, ev.ChatID, reply)
		}
		return
	}

	rc, err := p.context.Resolve(ctx, tenantID, telegramID, ev.Platform, ev.ChatID)
	if err != nil {
		p.log.Error().Err(err).Msg("bot: context resolution failed")
		return
	}

	if cmd, ok := parseWizardCommand(text); ok {
		p.handleWizardCommand(ctx, tenantID, ev, user, rc, cmd)
		return
	}

	if rc.Project == nil {
		if ev.IsGroupChat {
			p.reply(ctx, tenantID, ev.ChatID, "This chat isn't linked to a project yet. Send /link to connect one you own.")
			return
		}
		proj := p.replyPrivateNoProject(ctx, tenantID, ev, user)
		if proj == nil {
			return
		}
		rc.Project = proj
	}

	if cmd, ok := report.ParseQuickCommand(text); ok {
		p.handleQuickCommand(ctx, tenantID, ev, *rc.Project, cmd)
		return
	}

	if strings.HasPrefix(strings.ToLower(text), "/ask") {
		question := strings.TrimSpace(text[len("/ask"):])
		p.handleAsk(ctx, tenantID, ev, *rc.Project, question)
		return
	}

	p.handleChat(ctx, tenantID, ev, *rc.Project, text)
}

// ingest stores every inbound event as a Message, and — only once a
// project resolves for its chat — indexes its canonical text as an
// Embedding too. Undirected group chatter that never reaches the mention
// gate still feeds the project's history this way.
func (p *Pipeline) ingest(ctx context.Context, ev adapter.InboundEvent, user domain.User) {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return
	}

	var projectID *uuid.UUID
	if proj, err := p.context.ResolveChatProject(ctx, ev.Platform, ev.ChatID); err == nil {
		projectID = &proj.ID
	} else if !domain.Is(err, domain.CodeNotFound) {
		p.log.Error().Err(err).Msg("bot: resolving chat project for ingest failed")
		return
	}

	var platformMsgID *string
	if ev.PlatformMessageID != "" {
		id := ev.PlatformMessageID
		platformMsgID = &id
	}
	msgType := ev.MessageType
	if msgType == "" {
		msgType = domain.MessageText
	}

	msg, ok, err := p.messages.Ingest(ctx, domain.Message{
		ProjectID: projectID, UserID: &user.ID, Platform: ev.Platform, PlatformChatID: ev.ChatID,
		PlatformMessageID: platformMsgID, MessageType: msgType, RawText: &text,
	})
	if err != nil {
		p.log.Error().Err(err).Msg("bot: ingesting message failed")
		return
	}
	if !ok || projectID == nil {
		return
	}

	vec, err := p.embedder.Embed(ctx, text)
	if err != nil {
		p.log.Error().Err(err).Msg("bot: embedding message failed")
		return
	}
	createdAt := msg.CreatedAt
	if _, err := p.embeddings.Insert(ctx, domain.Embedding{
		ProjectID: *projectID,
		Content:   text,
		Vector:    vec,
		Metadata:  domain.EmbeddingMetadata{Source: "message", MessageID: &msg.ID, UserID: &user.ID, Date: &createdAt},
	}); err != nil {
		p.log.Error().Err(err).Msg("bot: indexing message embedding failed")
	}
}

// buildProjectContext assembles the structured project/stage/budget block
// every Ask answer and chat reply is grounded against.
func (p *Pipeline) buildProjectContext(ctx context.Context, proj domain.Project) string {
	stages, err := p.stages.ListByProject(ctx, proj.ID)
	if err != nil {
		p.log.Error().Err(err).Msg("bot: listing stages for context failed")
		return ""
	}
	summary, err := p.budget.Summary(ctx, proj.ID)
	if err != nil {
		p.log.Error().Err(err).Msg("bot: budget summary for context failed")
		return ""
	}
	return rag.BuildProjectContext(proj, stages, summary, time.Now())
}

func (p *Pipeline) reply(ctx context.Context, tenantID uuid.UUID, chatID, text string) {
	if err := p.sender.Send(ctx, tenantID, adapter.OutboundMessage{ChatID: chatID, Text: text}); err != nil {
		p.log.Error().Err(err).Msg("bot: send failed")
	}
}

func toGateUpdate(ev adapter.InboundEvent) middleware.Update {
	return middleware.Update{
		IsGroupChat:      ev.IsGroupChat,
		IsCommand:        ev.IsCommand,
		IsReplyToBot:     ev.IsReplyToBot,
		MentionsUsername: ev.MentionsUsername,
		MentionsBotID:    ev.MentionsBotID,
		Text:             ev.Text,
		IsMessageEvent:   ev.MessageType != "" || ev.Text != "",
	}
}

// replyPrivateNoProject implements decision-table rules 3-5 for a private
// chat with no group-linked project: exactly one owned project is returned
// for the caller to use directly (matching the context middleware's
// group-chat behavior), zero sends the user to /newproject, and more than
// one lists them by name since the interactive picker's inline-button
// callback belongs to the concrete platform adapter, out of scope here. It
// returns nil whenever it has replied (or failed) instead.
func (p *Pipeline) replyPrivateNoProject(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent, user domain.User) *domain.Project {
	owned, err := p.resolver.ProjectsOwnedBy(ctx, tenantID, user.ID, p.roles)
	if err != nil {
		p.log.Error().Err(err).Msg("bot: listing owned projects failed")
		return nil
	}
	res, err := p.resolver.ResolvePrivateChat(ctx, tenantID, user.ID, owned)
	if err != nil {
		p.log.Error().Err(err).Msg("bot: resolving private chat failed")
		return nil
	}
	switch res.Kind {
	case middleware.ResolvedNeedsCreate:
		p.reply(ctx, tenantID, ev.ChatID, "You don't have a project yet. Send /newproject to create one.")
	case middleware.ResolvedDirect:
		return res.Project
	default: // ResolvedNeedsPicker
		names := make([]string, len(res.Projects))
		for i, proj := range res.Projects {
			names[i] = proj.Name
		}
		p.reply(ctx, tenantID, ev.ChatID, "You own several projects: "+strings.Join(names, ", ")+". Run this command from the project's group chat.")
	}
	return nil
}

func (p *Pipeline) handleQuickCommand(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent, proj domain.Project, cmd report.Command) {
	stages, err := p.stages.ListByProject(ctx, proj.ID)
	if err != nil {
		p.log.Error().Err(err).Msg("bot: listing stages failed")
		return
	}

	now := time.Now()
	var text string
	switch cmd {
	case report.CommandBudget, report.CommandExpenses:
		summary, err := p.budget.Summary(ctx, proj.ID)
		if err != nil {
			p.log.Error().Err(err).Msg("bot: budget summary failed")
			return
		}
		text = formatBudget(summary)
	case report.CommandStages:
		text = formatStatus(report.BuildStatus(proj.ID, stages, now))
	case report.CommandNextStage, report.CommandMyStage:
		text = formatNextStage(report.BuildNextStage(proj.ID, stages))
	case report.CommandStatus:
		text = formatStatus(report.BuildStatus(proj.ID, stages, now))
	case report.CommandDeadline:
		text = formatDeadlines(report.BuildDeadlines(proj.ID, stages, deadlineLookahead, now))
	case report.CommandReport:
		summary, err := p.budget.Summary(ctx, proj.ID)
		if err != nil {
			p.log.Error().Err(err).Msg("bot: budget summary failed")
			return
		}
		text = formatWeekly(report.BuildWeekly(proj.ID, stages, summary, now))
	default:
		text = "That command isn't wired up yet."
	}

	p.reply(ctx, tenantID, ev.ChatID, text)
}

func (p *Pipeline) handleAsk(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent, proj domain.Project, question string) {
	if question == "" {
		p.reply(ctx, tenantID, ev.ChatID, "Ask me something about the project, e.g. /ask when is the tiling due?")
		return
	}
	result, err := p.rag.Ask(ctx, proj.ID, question, p.buildProjectContext(ctx, proj))
	if err != nil {
		p.log.Error().Err(err).Msg("bot: ask failed")
		p.reply(ctx, tenantID, ev.ChatID, "Something went wrong answering that, try again in a moment.")
		return
	}
	p.reply(ctx, tenantID, ev.ChatID, result.Answer)
}

func (p *Pipeline) handleChat(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent, proj domain.Project, text string) {
	if text == "" {
		return
	}

	key := ev.Platform + ":" + ev.ChatID

	p.chatMu.Lock()
	session, ok := p.chats[key]
	if !ok {
		session = rag.NewChatSession(fmt.Sprintf("You are the assistant for the %q renovation project.", proj.Name))
		p.chats[key] = session
	}
	p.chatMu.Unlock()

	answer, err := session.Reply(ctx, p.chat, p.buildProjectContext(ctx, proj), text)
	if err != nil {
		p.log.Error().Err(err).Msg("bot: chat reply failed")
		return
	}
	p.reply(ctx, tenantID, ev.ChatID, answer)
}
