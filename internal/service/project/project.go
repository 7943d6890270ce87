// Package project implements project creation and the stage-template
// expansion that seeds every new project with its renovation pipeline.
package project

import (
	"context"

	"github.com/google/uuid"

	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/repository"
)

// Service creates projects and expands their stage pipelines.
type Service struct {
	projects  repository.ProjectRepository
	stages    repository.StageRepository
	subs      repository.SubStageRepository
	roles     repository.ProjectRoleRepository
	changelog repository.ChangeLogRepository
}

func New(projects repository.ProjectRepository, stages repository.StageRepository, subs repository.SubStageRepository, roles repository.ProjectRoleRepository, changelog repository.ChangeLogRepository) Service {
	return Service{projects: projects, stages: stages, subs: subs, roles: roles, changelog: changelog}
}

// CreateParams describes a new project request.
type CreateParams struct {
	TenantID       uuid.UUID
	OwnerUserID    uuid.UUID
	Name           string
	Address        *string
	AreaSqm        *float64
	RenovationType domain.RenovationType
	TotalBudget    *float64
	CustomItems    []domain.CustomItem
}

// Create inserts the project, grants its creator the owner role, and
// expands the 13-stage standard template plus one parallel sub-pipeline per
// selected custom item.
func (s Service) Create(ctx context.Context, p CreateParams) (domain.Project, []domain.Stage, error) {
	if p.Name == "" {
		return domain.Project{}, nil, domain.Validation("project name is required")
	}
	if !p.RenovationType.Valid() {
		return domain.Project{}, nil, domain.Validation("invalid renovation type")
	}
	for _, item := range p.CustomItems {
		if !item.Valid() {
			return domain.Project{}, nil, domain.Validation("invalid custom item")
		}
	}

	created, err := s.projects.Create(ctx, domain.Project{
		TenantID:       p.TenantID,
		Name:           p.Name,
		Address:        p.Address,
		AreaSqm:        p.AreaSqm,
		RenovationType: p.RenovationType,
		TotalBudget:    p.TotalBudget,
		IsActive:       true,
	})
	if err != nil {
		return domain.Project{}, nil, err
	}

	if err := s.roles.Grant(ctx, created.ID, p.OwnerUserID, domain.RoleOwner); err != nil {
		return domain.Project{}, nil, err
	}

	mainStages := make([]domain.Stage, 0, len(domain.StandardStageNames))
	for i, name := range domain.StandardStageNames {
		order := i + 1
		mainStages = append(mainStages, domain.Stage{
			ProjectID:     created.ID,
			Name:          name,
			Order:         order,
			Status:        domain.StagePlanned,
			PaymentStatus: domain.PaymentRecorded,
			IsParallel:    false,
			IsCheckpoint:  domain.IsCheckpointOrder(order),
		})
	}
	createdMain, err := s.stages.CreateMany(ctx, mainStages)
	if err != nil {
		return domain.Project{}, nil, err
	}

	allStages := createdMain
	for itemIdx, item := range p.CustomItems {
		pipelineBase := 100 + itemIdx*10 // orders 100s, one block of 10 per item
		subs := make([]domain.Stage, 0, len(domain.CustomItemSubStages))
		for i, name := range domain.CustomItemSubStages {
			subs = append(subs, domain.Stage{
				ProjectID:     created.ID,
				Name:          string(item) + ": " + name,
				Order:         pipelineBase + i,
				Status:        domain.StagePlanned,
				PaymentStatus: domain.PaymentRecorded,
				IsParallel:    true,
				IsCheckpoint:  false,
			})
		}
		createdSubs, err := s.stages.CreateMany(ctx, subs)
		if err != nil {
			return domain.Project{}, nil, err
		}
		allStages = append(allStages, createdSubs...)
	}

	return created, allStages, nil
}

// LinkChat binds this project to the platform chat it is operated from,
// recording the chat id as a ChangeLog entry on the project itself.
func (s Service) LinkChat(ctx context.Context, projectID, actorID uuid.UUID, platform, chatID string) error {
	if err := s.projects.LinkChat(ctx, projectID, platform, chatID); err != nil {
		return err
	}
	newVal := platform + ":" + chatID
	return s.changelog.Append(ctx, domain.ChangeLog{
		ProjectID: projectID, UserID: &actorID, EntityType: "project", EntityID: projectID,
		FieldName: "platform_chat_id", NewValue: &newVal,
	})
}
