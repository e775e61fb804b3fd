// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refresh evaluates explicit regeneration flags into a
// dependency-consistent refresh plan.
// Implements: prd003-refresh (R1-R3);
//
//	docs/ARCHITECTURE § Refresh Strategy.
package refresh

import (
	"context"
	"fmt"

	"github.com/Nitesh802/customerintel-sub000/internal/store"
	"github.com/Nitesh802/customerintel-sub000/pkg/types"
)

// Sub-resource names accepted by ShouldRegenerate.
const (
	ResourceSource = "source"
	ResourceTarget = "target"
)

// Evaluate maps a refresh config to a plan. It is pure and total: a nil
// config or one with no flags set means full reuse. The global
// force-research flag regenerates everything. Otherwise source and
// target are copied independently and synthesis is the OR of its own
// flag and both inputs — synthesis can never be served stale against a
// regenerated input (R2.3).
func Evaluate(cfg *types.RefreshConfig) types.RefreshPlan {
	if cfg.IsZero() {
		return types.RefreshPlan{}
	}

	if cfg.ForceResearchRefresh {
		return types.RefreshPlan{
			RefreshSource:    true,
			RefreshTarget:    true,
			RefreshSynthesis: true,
		}
	}

	plan := types.RefreshPlan{
		RefreshSource: cfg.ForceSourceRefresh,
		RefreshTarget: cfg.ForceTargetRefresh,
	}
	plan.RefreshSynthesis = cfg.ForceSynthesisRefresh || plan.RefreshSource || plan.RefreshTarget
	return plan
}

// Planner answers per-run refresh questions from stored run config, so
// the pipeline can query each decision independently.
type Planner struct {
	store *store.Store
}

// NewPlanner returns a planner bound to the given store.
func NewPlanner(s *store.Store) *Planner {
	return &Planner{store: s}
}

// PlanForRun evaluates the refresh config stored with a run.
func (p *Planner) PlanForRun(ctx context.Context, runID string) (types.RefreshPlan, error) {
	run, err := p.store.GetRun(ctx, runID)
	if err != nil {
		return types.RefreshPlan{}, err
	}
	if run == nil {
		return types.RefreshPlan{}, fmt.Errorf("run %s not found", runID)
	}
	return Evaluate(run.Refresh), nil
}

// ShouldRegenerate reports the plan decision for one research
// sub-resource ("source" or "target").
func (p *Planner) ShouldRegenerate(ctx context.Context, runID, resource string) (bool, error) {
	plan, err := p.PlanForRun(ctx, runID)
	if err != nil {
		return false, err
	}

	switch resource {
	case ResourceSource:
		return plan.RefreshSource, nil
	case ResourceTarget:
		return plan.RefreshTarget, nil
	default:
		return false, fmt.Errorf("unknown sub-resource %q: use %s or %s", resource, ResourceSource, ResourceTarget)
	}
}

// ShouldRegenerateSynthesis reports the plan decision for the final
// synthesis step.
func (p *Planner) ShouldRegenerateSynthesis(ctx context.Context, runID string) (bool, error) {
	plan, err := p.PlanForRun(ctx, runID)
	if err != nil {
		return false, err
	}
	return plan.RefreshSynthesis, nil
}
