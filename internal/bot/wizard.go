package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/fsm"
	"github.com/renohub/core/internal/service/budget"
	"github.com/renohub/core/internal/service/project"
)

const (
	fieldTenantID    = "tenant_id"
	fieldOwnerID     = "owner_id"
	fieldName        = "name"
	fieldAddress     = "address"
	fieldArea        = "area"
	fieldType        = "type"
	fieldBudget      = "budget"
	fieldCustomItems = "custom_items"
	fieldProjectID   = "project_id"
	fieldInviteeID   = "invitee_id"
	fieldRole        = "role"

	intentCreateProject = "create"
	intentDeleteProject = "delete"
)

func isSkip(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "-", "skip", "пропустить", "нет":
		return true
	default:
		return false
	}
}

func isYes(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "y", "да":
		return true
	default:
		return false
	}
}

// registerWizards wires every multi-step conversation flow onto the shared
// FSM router: project creation, team invitations, and the project-confirm
// step shared between project creation and deletion.
func (p *Pipeline) registerWizards() {
	p.router.On(fsm.StateProjectName, p.wizardProjectName)
	p.router.On(fsm.StateProjectAddress, p.wizardProjectAddress)
	p.router.On(fsm.StateProjectArea, p.wizardProjectArea)
	p.router.On(fsm.StateProjectType, p.wizardProjectType)
	p.router.On(fsm.StateProjectBudget, p.wizardProjectBudget)
	p.router.On(fsm.StateProjectCustomItems, p.wizardProjectCustomItems)
	p.router.On(fsm.StateProjectConfirm, p.wizardProjectConfirm)

	p.router.On(fsm.StateRolePickUser, p.wizardRolePickUser)
	p.router.On(fsm.StateRolePickRole, p.wizardRolePickRole)
	p.router.On(fsm.StateRoleConfirm, p.wizardRoleConfirm)
}

func (p *Pipeline) wizardProjectName(ctx context.Context, sess fsm.Session, text string) (fsm.State, fsm.Data, string, error) {
	name := strings.TrimSpace(text)
	if name == "" {
		return fsm.StateNone, sess.Data, "", domain.Validation("the project needs a name — what should I call it?")
	}
	sess.Data.Fields[fieldName] = name
	return fsm.StateProjectAddress, sess.Data, "Address? (send - to skip)", nil
}

func (p *Pipeline) wizardProjectAddress(ctx context.Context, sess fsm.Session, text string) (fsm.State, fsm.Data, string, error) {
	if !isSkip(text) {
		sess.Data.Fields[fieldAddress] = strings.TrimSpace(text)
	}
	return fsm.StateProjectArea, sess.Data, "Area in square meters? (send - to skip)", nil
}

func (p *Pipeline) wizardProjectArea(ctx context.Context, sess fsm.Session, text string) (fsm.State, fsm.Data, string, error) {
	if !isSkip(text) {
		area, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(text), ",", "."), 64)
		if err != nil || area <= 0 {
			return fsm.StateNone, sess.Data, "", domain.Validation("that doesn't look like an area — send a number, or - to skip")
		}
		sess.Data.Fields[fieldArea] = strconv.FormatFloat(area, 'f', -1, 64)
	}
	return fsm.StateProjectType, sess.Data, "Renovation type: cosmetic, standard, major, or designer?", nil
}

func (p *Pipeline) wizardProjectType(ctx context.Context, sess fsm.Session, text string) (fsm.State, fsm.Data, string, error) {
	t := domain.RenovationType(strings.ToLower(strings.TrimSpace(text)))
	if !t.Valid() {
		return fsm.StateNone, sess.Data, "", domain.Validation("pick one of: cosmetic, standard, major, designer")
	}
	sess.Data.Fields[fieldType] = string(t)
	return fsm.StateProjectBudget, sess.Data, "Total budget? (send - to skip)", nil
}

func (p *Pipeline) wizardProjectBudget(ctx context.Context, sess fsm.Session, text string) (fsm.State, fsm.Data, string, error) {
	if !isSkip(text) {
		amount, err := budget.ParseAmount(text)
		if err != nil {
			return fsm.StateNone, sess.Data, "", err
		}
		sess.Data.Fields[fieldBudget] = strconv.FormatFloat(amount, 'f', -1, 64)
	}
	return fsm.StateProjectCustomItems, sess.Data, "Any furniture sub-pipelines to track? Comma-separated from: kitchen, wardrobes, walkin, doors (send - to skip)", nil
}

func (p *Pipeline) wizardProjectCustomItems(ctx context.Context, sess fsm.Session, text string) (fsm.State, fsm.Data, string, error) {
	if !isSkip(text) {
		var items []string
		for _, part := range strings.Split(text, ",") {
			item := domain.CustomItem(strings.ToLower(strings.TrimSpace(part)))
			if !item.Valid() {
				return fsm.StateNone, sess.Data, "", domain.Validation("unknown item — pick from kitchen, wardrobes, walkin, doors")
			}
			items = append(items, string(item))
		}
		sess.Data.Fields[fieldCustomItems] = strings.Join(items, ",")
	}
	sess.Data.Intent = intentCreateProject
	return fsm.StateProjectConfirm, sess.Data, summarizeNewProject(sess.Data) + "\nCreate this project? (yes/no)", nil
}

func summarizeNewProject(data fsm.Data) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", data.Fields[fieldName])
	if v := data.Fields[fieldAddress]; v != "" {
		fmt.Fprintf(&b, "Address: %s\n", v)
	}
	if v := data.Fields[fieldArea]; v != "" {
		fmt.Fprintf(&b, "Area: %s m²\n", v)
	}
	fmt.Fprintf(&b, "Type: %s\n", data.Fields[fieldType])
	if v := data.Fields[fieldBudget]; v != "" {
		fmt.Fprintf(&b, "Budget: %s\n", v)
	}
	if v := data.Fields[fieldCustomItems]; v != "" {
		fmt.Fprintf(&b, "Custom items: %s\n", v)
	}
	return b.String()
}

// wizardProjectConfirm is shared between the project-creation wizard and the
// /deleteproject confirmation, distinguished by Data.Intent.
func (p *Pipeline) wizardProjectConfirm(ctx context.Context, sess fsm.Session, text string) (fsm.State, fsm.Data, string, error) {
	if sess.Data.Intent == intentDeleteProject {
		return p.confirmDeleteProject(ctx, sess, text)
	}
	return p.confirmCreateProject(ctx, sess, text)
}

func (p *Pipeline) confirmCreateProject(ctx context.Context, sess fsm.Session, text string) (fsm.State, fsm.Data, string, error) {
	if !isYes(text) {
		return fsm.StateNone, sess.Data, "Cancelled.", nil
	}

	tenantID, err := uuid.Parse(sess.Data.Fields[fieldTenantID])
	if err != nil {
		return fsm.StateNone, sess.Data, "", domain.Unexpected("bot: malformed wizard tenant id", err)
	}
	ownerID, err := uuid.Parse(sess.Data.Fields[fieldOwnerID])
	if err != nil {
		return fsm.StateNone, sess.Data, "", domain.Unexpected("bot: malformed wizard owner id", err)
	}

	params := project.CreateParams{
		TenantID:       tenantID,
		OwnerUserID:    ownerID,
		Name:           sess.Data.Fields[fieldName],
		RenovationType: domain.RenovationType(sess.Data.Fields[fieldType]),
	}
	if v := sess.Data.Fields[fieldAddress]; v != "" {
		params.Address = &v
	}
	if v := sess.Data.Fields[fieldArea]; v != "" {
		area, _ := strconv.ParseFloat(v, 64)
		params.AreaSqm = &area
	}
	if v := sess.Data.Fields[fieldBudget]; v != "" {
		amount, _ := strconv.ParseFloat(v, 64)
		params.TotalBudget = &amount
	}
	if v := sess.Data.Fields[fieldCustomItems]; v != "" {
		for _, s := range strings.Split(v, ",") {
			params.CustomItems = append(params.CustomItems, domain.CustomItem(s))
		}
	}

	created, stages, err := p.projectSvc.Create(ctx, params)
	if err != nil {
		return fsm.StateNone, sess.Data, "", err
	}
	return fsm.StateNone, sess.Data, fmt.Sprintf("Created %q with %d stages. Send /link from the project's group chat to connect it.", created.Name, len(stages)), nil
}

func (p *Pipeline) confirmDeleteProject(ctx context.Context, sess fsm.Session, text string) (fsm.State, fsm.Data, string, error) {
	if !isYes(text) {
		return fsm.StateNone, sess.Data, "Cancelled.", nil
	}
	projectID, err := uuid.Parse(sess.Data.Fields[fieldProjectID])
	if err != nil {
		return fsm.StateNone, sess.Data, "", domain.Unexpected("bot: malformed wizard project id", err)
	}
	if err := p.projects.SetActive(ctx, projectID, false); err != nil {
		return fsm.StateNone, sess.Data, "", err
	}
	return fsm.StateNone, sess.Data, "Project deleted.", nil
}

func (p *Pipeline) wizardRolePickUser(ctx context.Context, sess fsm.Session, text string) (fsm.State, fsm.Data, string, error) {
	tgID, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return fsm.StateNone, sess.Data, "", domain.Validation("send the Telegram numeric ID of the person to invite")
	}
	invitee, err := p.users.Upsert(ctx, domain.User{TelegramID: &tgID})
	if err != nil {
		return fsm.StateNone, sess.Data, "", err
	}
	sess.Data.Fields[fieldInviteeID] = invitee.ID.String()
	return fsm.StateRolePickRole, sess.Data, "Which role? co_owner, foreman, tradesperson, designer, supplier, expert, or viewer", nil
}

func (p *Pipeline) wizardRolePickRole(ctx context.Context, sess fsm.Session, text string) (fsm.State, fsm.Data, string, error) {
	role := domain.Role(strings.ToLower(strings.TrimSpace(text)))
	assignable := false
	for _, r := range domain.AssignableRoles {
		if r == role {
			assignable = true
			break
		}
	}
	if !assignable {
		return fsm.StateNone, sess.Data, "", domain.Validation("pick one of: co_owner, foreman, tradesperson, designer, supplier, expert, viewer")
	}
	sess.Data.Fields[fieldRole] = string(role)
	return fsm.StateRoleConfirm, sess.Data, fmt.Sprintf("Grant %s to this user? (yes/no)", role), nil
}

func (p *Pipeline) wizardRoleConfirm(ctx context.Context, sess fsm.Session, text string) (fsm.State, fsm.Data, string, error) {
	if !isYes(text) {
		return fsm.StateNone, sess.Data, "Cancelled.", nil
	}
	projectID, err := uuid.Parse(sess.Data.Fields[fieldProjectID])
	if err != nil {
		return fsm.StateNone, sess.Data, "", domain.Unexpected("bot: malformed wizard project id", err)
	}
	inviteeID, err := uuid.Parse(sess.Data.Fields[fieldInviteeID])
	if err != nil {
		return fsm.StateNone, sess.Data, "", domain.Unexpected("bot: malformed wizard invitee id", err)
	}
	role := domain.Role(sess.Data.Fields[fieldRole])
	if err := p.roleSvc.Invite(ctx, projectID, inviteeID, role); err != nil {
		return fsm.StateNone, sess.Data, "", err
	}
	return fsm.StateNone, sess.Data, fmt.Sprintf("Invited — granted %s.", role), nil
}
