// Package lab composes Graph client calls into the higher-level lab
// workflows: bulk user provisioning, group and license management, and
// whole-environment create/remove.
package lab

import (
	"github.com/google/uuid"

	"github.com/awillows/win365-lab-builder/client"
	"github.com/awillows/win365-lab-builder/config"
)

// Orchestrator drives lab workflows over an injected Graph client. It holds
// no state beyond configuration defaults; every remote resource lives in the
// tenant.
type Orchestrator struct {
	client client.GraphClient
	cfg    config.Config
	dryRun bool
}

func New(graphClient client.GraphClient, cfg config.Config, opts ...Option) *Orchestrator {
	s := &Orchestrator{client: graphClient, cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type Option func(*Orchestrator)

// WithDryRun makes every mutating workflow report its plan without issuing
// remote write calls.
func WithDryRun(dryRun bool) Option {
	return func(s *Orchestrator) { s.dryRun = dryRun }
}

// ConfirmFunc gates destructive operations. It receives the resolved target
// names and returns whether to proceed. A nil ConfirmFunc means proceed
// without asking (the --force path).
type ConfirmFunc func(targets []string) bool

func (s *Orchestrator) confirmed(confirm ConfirmFunc, targets []string) bool {
	if confirm == nil {
		return true
	}
	return confirm(targets)
}

func isObjectID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}
