package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/renohub/core/internal/domain"
)

func TestParseQuickCommand(t *testing.T) {
	cases := map[string]Command{
		"бюджет":         CommandBudget,
		"/budget":        CommandBudget,
		"Этапы":          CommandStages,
		"следующий этап": CommandNextStage,
		"дедлайн":        CommandDeadline,
	}
	for in, want := range cases {
		got, ok := ParseQuickCommand(in)
		assert.True(t, ok, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, ok := ParseQuickCommand("какой сегодня день недели")
	assert.False(t, ok)
}

func TestBuildNextStage(t *testing.T) {
	projectID := uuid.New()
	stages := []domain.Stage{
		{Order: 1, Status: domain.StageCompleted},
		{Order: 2, Status: domain.StageInProgress},
		{Order: 3, Status: domain.StagePlanned},
		{Order: 4, Status: domain.StagePlanned},
	}
	r := BuildNextStage(projectID, stages)
	assert.NotNil(t, r.Current)
	assert.Equal(t, 2, r.Current.Order)
	assert.NotNil(t, r.Next)
	assert.Equal(t, 3, r.Next.Order)
}

func TestBuildDeadlines(t *testing.T) {
	now := time.Now()
	past := now.Add(-48 * time.Hour)
	soon := now.Add(12 * time.Hour)
	far := now.Add(30 * 24 * time.Hour)

	stages := []domain.Stage{
		{Name: "overdue", EndDate: &past},
		{Name: "soon", EndDate: &soon},
		{Name: "far", EndDate: &far},
		{Name: "no-date"},
	}
	r := BuildDeadlines(uuid.New(), stages, 24*time.Hour, now)
	assert.Len(t, r.Overdue, 1)
	assert.Equal(t, "overdue", r.Overdue[0].Name)
	assert.Len(t, r.Approaching, 1)
	assert.Equal(t, "soon", r.Approaching[0].Name)
}
