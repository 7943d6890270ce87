// Package fsm implements the conversation state machine: named states
// across five wizard groups plus AI chat, a small per-conversation data
// bag, and explicit/implicit transitions.
package fsm

// State identifies a (group:step) position in a conversation flow.
type State string

const (
	StateNone State = ""

	// project creation wizard
	StateProjectName        State = "project:name"
	StateProjectAddress     State = "project:address"
	StateProjectArea        State = "project:area"
	StateProjectType        State = "project:type"
	StateProjectBudget      State = "project:budget"
	StateProjectCustomItems State = "project:custom_items"
	StateProjectConfirm     State = "project:confirm"

	// stage setup wizard
	StateStagePick        State = "stage:pick"
	StateStageStartDate   State = "stage:start_date"
	StateStageEndDate     State = "stage:end_date"
	StateStageResponsible State = "stage:responsible"
	StateStageBudget      State = "stage:budget"
	StateStageSubStages   State = "stage:sub_stages"

	// role management wizard
	StateRolePickUser State = "role:pick_user"
	StateRolePickRole State = "role:pick_role"
	StateRoleConfirm  State = "role:confirm"

	// budget management wizard
	StateBudgetCategory    State = "budget:category"
	StateBudgetDescription State = "budget:description"
	StateBudgetWorkCost    State = "budget:work_cost"
	StateBudgetMaterial    State = "budget:material_cost"
	StateBudgetPrepayment  State = "budget:prepayment"

	// report project picker
	StateReportPickProject State = "report:pick_project"

	// AI chat
	StateChatActive State = "chat:active"
)

// Group returns the state's leading component ("project", "stage", "role",
// "budget", "report", "chat"), or "" for StateNone.
func (s State) Group() string {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return string(s[:i])
		}
	}
	return ""
}

// Data is the small per-conversation bag carried alongside a State:
// accumulated wizard fields, the active project/stage, and chat history.
type Data struct {
	ProjectID string
	StageID   string
	Intent    string
	Fields    map[string]string
	ChatTurns []ChatTurn
}

// ChatTurn is one exchange in the sliding AI-chat window.
type ChatTurn struct {
	Role    string // "user" or "assistant"
	Content string
}

func NewData() Data {
	return Data{Fields: make(map[string]string)}
}
