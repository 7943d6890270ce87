package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/adapter"
	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/fsm"
	"github.com/renohub/core/internal/middleware"
	"github.com/renohub/core/internal/rag"
)

// wizardCommand is one of the slash commands that either starts a
// multi-step FSM flow or needs project-resolution logic beyond the plain
// quick commands in format.go.
type wizardCommand string

const (
	cmdNewProject    wizardCommand = "/newproject"
	cmdMyProjects    wizardCommand = "/myprojects"
	cmdDeleteProject wizardCommand = "/deleteproject"
	cmdLink          wizardCommand = "/link"
	cmdInvite        wizardCommand = "/invite"
	cmdMyRole        wizardCommand = "/myrole"
	cmdTeam          wizardCommand = "/team"
	cmdParticipants  wizardCommand = "/participants"
	cmdLaunch        wizardCommand = "/launch"
	cmdComplete      wizardCommand = "/complete"
	cmdApprove       wizardCommand = "/approve"
	cmdReject        wizardCommand = "/reject"
)

func parseWizardCommand(text string) (wizardCommand, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	cmd := wizardCommand(strings.ToLower(fields[0]))
	switch cmd {
	case cmdNewProject, cmdMyProjects, cmdDeleteProject, cmdLink, cmdInvite, cmdMyRole, cmdTeam, cmdParticipants, cmdLaunch, cmdComplete, cmdApprove, cmdReject:
		return cmd, true
	default:
		return "", false
	}
}

// errToReply translates a domain error into the generic, user-facing
// message for its code — handlers never leak internal error text to chat.
func errToReply(err error) string {
	return domain.HumanMessages[domain.CodeOf(err)]
}

func (p *Pipeline) handleWizardCommand(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent, user domain.User, rc middleware.RequestContext, cmd wizardCommand) {
	switch cmd {
	case cmdNewProject:
		p.startNewProject(ctx, tenantID, ev, user)
	case cmdMyProjects:
		p.listMyProjects(ctx, tenantID, ev, user)
	case cmdLink:
		p.linkChat(ctx, tenantID, ev, user, rc)
	case cmdDeleteProject:
		p.startDeleteProject(ctx, tenantID, ev, user, rc)
	case cmdInvite:
		p.startInvite(ctx, tenantID, ev, user, rc)
	case cmdMyRole:
		p.showMyRole(ctx, tenantID, ev, user, rc)
	case cmdTeam:
		p.showTeam(ctx, tenantID, ev, rc)
	case cmdParticipants:
		p.showParticipants(ctx, tenantID, ev, rc)
	case cmdLaunch:
		p.launchProject(ctx, tenantID, ev, user, rc)
	case cmdComplete:
		p.completeStage(ctx, tenantID, ev, user, rc)
	case cmdApprove:
		p.reviewCheckpoint(ctx, tenantID, ev, user, rc, true)
	case cmdReject:
		p.reviewCheckpoint(ctx, tenantID, ev, user, rc, false)
	}
}

func (p *Pipeline) startNewProject(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent, user domain.User) {
	if ev.IsGroupChat {
		p.reply(ctx, tenantID, ev.ChatID, "Start a new project from a private chat with me, then /link it here.")
		return
	}
	data := fsm.NewData()
	data.Fields[fieldTenantID] = tenantID.String()
	data.Fields[fieldOwnerID] = user.ID.String()
	if err := p.router.Start(ctx, ev.Platform, ev.ChatID, ev.UserPlatformID, fsm.StateProjectName, data); err != nil {
		p.log.Error().Err(err).Msg("bot: starting project wizard failed")
		return
	}
	p.reply(ctx, tenantID, ev.ChatID, "Let's set up a new project. What's it called?")
}

func (p *Pipeline) listMyProjects(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent, user domain.User) {
	owned, err := p.resolver.ProjectsOwnedBy(ctx, tenantID, user.ID, p.roles)
	if err != nil {
		p.log.Error().Err(err).Msg("bot: listing owned projects failed")
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return
	}
	if len(owned) == 0 {
		p.reply(ctx, tenantID, ev.ChatID, "You don't own any projects yet. Send /newproject to create one.")
		return
	}
	names := make([]string, len(owned))
	for i, proj := range owned {
		names[i] = proj.Name
	}
	p.reply(ctx, tenantID, ev.ChatID, strings.Join(names, "\n"))
}

// linkChat binds the sender's single unlinked owned project to this group
// chat. With more than one candidate it links the most recently created —
// an explicit simplification of the decision table's picker rule, since the
// interactive picker's callback buttons belong to the concrete platform
// adapter this module doesn't implement.
func (p *Pipeline) linkChat(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent, user domain.User, rc middleware.RequestContext) {
	if !ev.IsGroupChat {
		p.reply(ctx, tenantID, ev.ChatID, "/link only applies in a group chat.")
		return
	}
	if rc.Project != nil {
		p.reply(ctx, tenantID, ev.ChatID, fmt.Sprintf("This chat is already linked to %q.", rc.Project.Name))
		return
	}

	owned, err := p.resolver.ProjectsOwnedBy(ctx, tenantID, user.ID, p.roles)
	if err != nil {
		p.log.Error().Err(err).Msg("bot: listing owned projects failed")
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return
	}
	var unlinked []domain.Project
	for _, proj := range owned {
		if proj.PlatformChatID == nil {
			unlinked = append(unlinked, proj)
		}
	}
	if len(unlinked) == 0 {
		p.reply(ctx, tenantID, ev.ChatID, "You don't have an unlinked project. Send /newproject in a private chat first.")
		return
	}
	target := unlinked[len(unlinked)-1]

	if err := p.projectSvc.LinkChat(ctx, target.ID, user.ID, ev.Platform, ev.ChatID); err != nil {
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return
	}
	p.reply(ctx, tenantID, ev.ChatID, fmt.Sprintf("Linked %q to this chat.", target.Name))
}

// resolveTarget picks the project a project-scoped command outside a
// linked group chat should act on: the group's linked project, or — in a
// private chat — the sender's sole owned project. Ambiguous or missing
// cases return ok=false having already sent the user an explanation.
func (p *Pipeline) resolveTarget(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent, user domain.User, rc middleware.RequestContext) (domain.Project, bool) {
	if rc.Project != nil {
		return *rc.Project, true
	}
	owned, err := p.resolver.ProjectsOwnedBy(ctx, tenantID, user.ID, p.roles)
	if err != nil {
		p.log.Error().Err(err).Msg("bot: listing owned projects failed")
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return domain.Project{}, false
	}
	res, err := p.resolver.ResolvePrivateChat(ctx, tenantID, user.ID, owned)
	if err != nil {
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return domain.Project{}, false
	}
	switch res.Kind {
	case middleware.ResolvedDirect:
		return *res.Project, true
	case middleware.ResolvedNeedsCreate:
		p.reply(ctx, tenantID, ev.ChatID, "You don't have a project yet. Send /newproject to create one.")
		return domain.Project{}, false
	default: // ResolvedNeedsPicker
		names := make([]string, len(res.Projects))
		for i, proj := range res.Projects {
			names[i] = proj.Name
		}
		p.reply(ctx, tenantID, ev.ChatID, "You own several projects: "+strings.Join(names, ", ")+". Run this command from the project's group chat.")
		return domain.Project{}, false
	}
}

func (p *Pipeline) startDeleteProject(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent, user domain.User, rc middleware.RequestContext) {
	proj, ok := p.resolveTarget(ctx, tenantID, ev, user, rc)
	if !ok {
		return
	}
	if err := p.roleSvc.Require(ctx, proj.ID, user.ID, domain.PermDeleteProject); err != nil {
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return
	}

	data := fsm.NewData()
	data.Intent = intentDeleteProject
	data.Fields[fieldProjectID] = proj.ID.String()
	if err := p.router.Start(ctx, ev.Platform, ev.ChatID, ev.UserPlatformID, fsm.StateProjectConfirm, data); err != nil {
		p.log.Error().Err(err).Msg("bot: starting delete wizard failed")
		return
	}
	p.reply(ctx, tenantID, ev.ChatID, fmt.Sprintf("Delete %q? This cannot be undone. (yes/no)", proj.Name))
}

func (p *Pipeline) startInvite(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent, user domain.User, rc middleware.RequestContext) {
	proj, ok := p.resolveTarget(ctx, tenantID, ev, user, rc)
	if !ok {
		return
	}
	if err := p.roleSvc.Require(ctx, proj.ID, user.ID, domain.PermInviteMembers); err != nil {
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return
	}

	data := fsm.NewData()
	data.Fields[fieldProjectID] = proj.ID.String()
	if err := p.router.Start(ctx, ev.Platform, ev.ChatID, ev.UserPlatformID, fsm.StateRolePickUser, data); err != nil {
		p.log.Error().Err(err).Msg("bot: starting invite wizard failed")
		return
	}
	p.reply(ctx, tenantID, ev.ChatID, "Send the Telegram numeric ID of the person to invite.")
}

func (p *Pipeline) showMyRole(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent, user domain.User, rc middleware.RequestContext) {
	proj, ok := p.resolveTarget(ctx, tenantID, ev, user, rc)
	if !ok {
		return
	}
	roles, err := p.roles.RolesForUser(ctx, proj.ID, user.ID)
	if err != nil {
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return
	}
	if len(roles) == 0 {
		p.reply(ctx, tenantID, ev.ChatID, "You have no role on this project.")
		return
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	p.reply(ctx, tenantID, ev.ChatID, "Your roles: "+strings.Join(names, ", "))
}

func (p *Pipeline) showTeam(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent, rc middleware.RequestContext) {
	var projID uuid.UUID
	if rc.Project != nil {
		projID = rc.Project.ID
	} else {
		p.reply(ctx, tenantID, ev.ChatID, "Run /team from the project's group chat, or link one with /link.")
		return
	}

	members, err := p.roleSvc.Members(ctx, projID)
	if err != nil {
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return
	}
	if len(members) == 0 {
		p.reply(ctx, tenantID, ev.ChatID, "No team members yet.")
		return
	}

	var b strings.Builder
	for _, m := range members {
		u, err := p.users.Get(ctx, m.UserID)
		if err != nil {
			continue
		}
		name := u.FullName
		if name == "" && u.TelegramID != nil {
			name = strconv.FormatInt(*u.TelegramID, 10)
		}
		fmt.Fprintf(&b, "%s — %s\n", name, m.Role)
	}
	p.reply(ctx, tenantID, ev.ChatID, strings.TrimSpace(b.String()))
}

// participantSummaryWindow bounds how many of a project's recent messages
// /participants draws from before splitting them out per team member.
const participantSummaryWindow = 200

// showParticipants gives an AI-generated summary of each team member's
// involvement in the project, drawn from their share of recent messages.
func (p *Pipeline) showParticipants(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent, rc middleware.RequestContext) {
	var projID uuid.UUID
	if rc.Project != nil {
		projID = rc.Project.ID
	} else {
		p.reply(ctx, tenantID, ev.ChatID, "Run /participants from the project's group chat, or link one with /link.")
		return
	}

	members, err := p.roleSvc.Members(ctx, projID)
	if err != nil {
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return
	}
	if len(members) == 0 {
		p.reply(ctx, tenantID, ev.ChatID, "No team members yet.")
		return
	}

	history, err := p.messages.RecentByProject(ctx, projID, participantSummaryWindow)
	if err != nil {
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return
	}
	byUser := make(map[uuid.UUID][]domain.Message)
	for _, m := range history {
		if m.UserID != nil {
			byUser[*m.UserID] = append(byUser[*m.UserID], m)
		}
	}

	var b strings.Builder
	for _, m := range members {
		msgs := byUser[m.UserID]
		if len(msgs) == 0 {
			continue
		}
		u, err := p.users.Get(ctx, m.UserID)
		if err != nil {
			continue
		}
		summary, err := rag.SummarizeParticipant(ctx, p.chat, p.skills, msgs)
		if err != nil {
			p.log.Error().Err(err).Msg("bot: summarizing participant failed")
			continue
		}
		name := u.FullName
		if name == "" && u.TelegramID != nil {
			name = strconv.FormatInt(*u.TelegramID, 10)
		}
		fmt.Fprintf(&b, "%s:\n%s\n\n", name, summary)
	}
	if b.Len() == 0 {
		p.reply(ctx, tenantID, ev.ChatID, "Nobody on the team has any messages logged yet.")
		return
	}
	p.reply(ctx, tenantID, ev.ChatID, strings.TrimSpace(b.String()))
}

func (p *Pipeline) launchProject(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent, user domain.User, rc middleware.RequestContext) {
	proj, ok := p.resolveTarget(ctx, tenantID, ev, user, rc)
	if !ok {
		return
	}
	if err := p.roleSvc.Require(ctx, proj.ID, user.ID, domain.PermManageStages); err != nil {
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return
	}

	stages, err := p.stages.ListByProject(ctx, proj.ID)
	if err != nil {
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return
	}
	var first *domain.Stage
	for i := range stages {
		if stages[i].Order == 1 {
			first = &stages[i]
			break
		}
	}
	if first == nil {
		p.reply(ctx, tenantID, ev.ChatID, "This project has no stage pipeline to launch.")
		return
	}
	if !p.stageSvc.LaunchReady(*first) {
		p.reply(ctx, tenantID, ev.ChatID, "Not ready to launch — set a start date on the first stage first.")
		return
	}
	if err := p.stageSvc.SetStatus(ctx, user.ID, first.ID, domain.StageInProgress); err != nil {
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return
	}

	reply := fmt.Sprintf("Launched — %q is now in progress.", first.Name)
	if warnings := p.stageSvc.LaunchWarnings(stages); len(warnings) > 0 {
		reply += "\n\nHeads up:\n" + strings.Join(warnings, "\n")
	}
	p.reply(ctx, tenantID, ev.ChatID, reply)
}

// completeStage marks the project's current in-progress main stage done.
// Checkpoint stages halt for owner approval instead of completing outright;
// /approve and /reject resolve that halt.
func (p *Pipeline) completeStage(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent, user domain.User, rc middleware.RequestContext) {
	proj, ok := p.resolveTarget(ctx, tenantID, ev, user, rc)
	if !ok {
		return
	}
	if err := p.roleSvc.Require(ctx, proj.ID, user.ID, domain.PermManageStages); err != nil {
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return
	}

	current, ok := p.currentMainStage(ctx, tenantID, ev, proj.ID)
	if !ok {
		return
	}

	halted, err := p.stageSvc.Complete(ctx, user.ID, current.ID)
	if err != nil {
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return
	}
	if !halted {
		p.reply(ctx, tenantID, ev.ChatID, fmt.Sprintf("%q is complete.", current.Name))
		return
	}

	p.reply(ctx, tenantID, ev.ChatID, fmt.Sprintf("%q is a checkpoint — waiting for the owner to /approve or /reject.", current.Name))
	n, err := p.notify.CheckpointReached(ctx, proj.ID, current.ID, current.Name)
	if err != nil {
		p.log.Error().Err(err).Msg("bot: building checkpoint notification failed")
		return
	}
	if err := p.deliver.Deliver(ctx, n); err != nil {
		p.log.Error().Err(err).Msg("bot: delivering checkpoint notification failed")
	}
}

func (p *Pipeline) reviewCheckpoint(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent, user domain.User, rc middleware.RequestContext, approve bool) {
	proj, ok := p.resolveTarget(ctx, tenantID, ev, user, rc)
	if !ok {
		return
	}
	if err := p.roleSvc.Require(ctx, proj.ID, user.ID, domain.PermApproveCheckpoint); err != nil {
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return
	}

	stages, err := p.stages.ListByProject(ctx, proj.ID)
	if err != nil {
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return
	}
	var pending *domain.Stage
	for i := range stages {
		if stages[i].Status == domain.StagePendingApproval {
			pending = &stages[i]
			break
		}
	}
	if pending == nil {
		p.reply(ctx, tenantID, ev.ChatID, "No checkpoint is waiting on approval.")
		return
	}

	if approve {
		if err := p.stageSvc.ApproveCheckpoint(ctx, pending.ID, user.ID); err != nil {
			p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
			return
		}
		p.reply(ctx, tenantID, ev.ChatID, fmt.Sprintf("Approved — %q is complete.", pending.Name))
		return
	}
	if err := p.stageSvc.RejectCheckpoint(ctx, pending.ID, user.ID); err != nil {
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return
	}
	p.reply(ctx, tenantID, ev.ChatID, fmt.Sprintf("Rejected — %q is back to delayed for rework.", pending.Name))
}

// currentMainStage finds the lowest-order non-parallel stage still
// in_progress, the target of /complete.
func (p *Pipeline) currentMainStage(ctx context.Context, tenantID uuid.UUID, ev adapter.InboundEvent, projectID uuid.UUID) (domain.Stage, bool) {
	stages, err := p.stages.ListByProject(ctx, projectID)
	if err != nil {
		p.reply(ctx, tenantID, ev.ChatID, errToReply(err))
		return domain.Stage{}, false
	}
	var current *domain.Stage
	for i := range stages {
		if stages[i].IsParallel || stages[i].Status != domain.StageInProgress {
			continue
		}
		if current == nil || stages[i].Order < current.Order {
			current = &stages[i]
		}
	}
	if current == nil {
		p.reply(ctx, tenantID, ev.ChatID, "No stage is currently in progress.")
		return domain.Stage{}, false
	}
	return *current, true
}
