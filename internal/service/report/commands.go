package report

import "strings"

// Command is a canonical quick-command identifier the router dispatches on.
type Command string

const (
	CommandBudget    Command = "budget"
	CommandStages    Command = "stages"
	CommandExpenses  Command = "expenses"
	CommandReport    Command = "report"
	CommandNextStage Command = "next_stage"
	CommandMyStage   Command = "my_stage"
	CommandStatus    Command = "status"
	CommandDeadline  Command = "deadline"
	CommandExpert    Command = "expert"
)

// quickCommandAliases maps every Russian/English surface form to its
// canonical Command.
var quickCommandAliases = map[string]Command{
	"бюджет":         CommandBudget,
	"budget":         CommandBudget,
	"этапы":          CommandStages,
	"stages":         CommandStages,
	"расходы":        CommandExpenses,
	"expenses":       CommandExpenses,
	"отчёт":          CommandReport,
	"отчет":          CommandReport,
	"report":         CommandReport,
	"следующий этап": CommandNextStage,
	"мой этап":       CommandMyStage,
	"статус":         CommandStatus,
	"дедлайн":        CommandDeadline,
	"эксперт":        CommandExpert,
}

// ParseQuickCommand matches free text against the bilingual quick-command
// set, case-insensitive, ignoring leading/trailing whitespace and one
// leading "/" (inner spacing must match exactly). ok is false when text matches
// nothing, in which case the caller should fall through to the AI chat
// flow rather than treat it as an error.
func ParseQuickCommand(text string) (cmd Command, ok bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.TrimPrefix(normalized, "/")
	cmd, ok = quickCommandAliases[normalized]
	return cmd, ok
}
