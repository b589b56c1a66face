package repository

import (
	"context"

	"github.com/costreports/costreports/internal/domain/entity"
)

// CostRepository defines the interface for AWS API interactions.
type CostRepository interface {
	// Profile Operations
	GetAWSProfiles() []string
	GetCallerIdentity(ctx context.Context, profile string) (entity.CallerIdentity, error)

	// Cost Operations
	GetMonthlyCosts(ctx context.Context, profile string, months []string) ([]entity.CostRecord, []entity.RegionCostRecord, error)

	// Budget Operations
	GetBudgets(ctx context.Context, profile string) ([]entity.BudgetInfo, error)
}
