package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/domain"
)

// RoleAction selects what ManageRoles does
type RoleAction string

const (
	RoleActionGrant  RoleAction = "grant"
	RoleActionRevoke RoleAction = "revoke"
	RoleActionCheck  RoleAction = "check"
)

// ManageRolesParams contains parameters for role management
type ManageRolesParams struct {
	Action  RoleAction
	Role    string
	Account string
}

// ManageRolesResult describes role membership after the action
type ManageRolesResult struct {
	Action  RoleAction     `json:"action"`
	Role    common.Hash    `json:"role"`
	Name    string         `json:"roleName"`
	Account common.Address `json:"account"`
	HasRole bool           `json:"hasRole"`
	Changed bool           `json:"changed"`
	Tx      *TxResult      `json:"tx,omitempty"`
}

// ManageRoles grants, revokes and checks registry roles
type ManageRoles struct {
	config   *config.RuntimeConfig
	backend  ChainBackend
	progress ProgressSink
	metrics  MetricsRecorder
}

// NewManageRoles creates a new ManageRoles use case
func NewManageRoles(cfg *config.RuntimeConfig, backend ChainBackend, progress ProgressSink, metrics MetricsRecorder) *ManageRoles {
	return &ManageRoles{config: cfg, backend: backend, progress: progress, metrics: metrics}
}

// Run executes the role action
func (uc *ManageRoles) Run(ctx context.Context, params ManageRolesParams) (*ManageRolesResult, error) {
	role, err := domain.ParseRole(params.Role)
	if err != nil {
		return nil, err
	}
	account, err := uc.config.Project.ResolveAccount(params.Account)
	if err != nil {
		return nil, err
	}

	result := &ManageRolesResult{
		Action:  params.Action,
		Role:    role,
		Name:    domain.RoleName(role),
		Account: account,
	}

	before, err := uc.backend.HasRole(ctx, role, account)
	if err != nil {
		return nil, err
	}

	var tx *TxResult
	start := time.Now()
	switch params.Action {
	case RoleActionCheck:
		result.HasRole = before
		return result, nil
	case RoleActionGrant:
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "grant",
			Message: fmt.Sprintf("Granting %s to %s", result.Name, account.Hex()),
			Spinner: true,
		})
		tx, err = uc.backend.GrantRole(ctx, uc.config.From, role, account)
	case RoleActionRevoke:
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "revoke",
			Message: fmt.Sprintf("Revoking %s from %s", result.Name, account.Hex()),
			Spinner: true,
		})
		tx, err = uc.backend.RevokeRole(ctx, uc.config.From, role, account)
	default:
		return nil, fmt.Errorf("unknown role action %q", params.Action)
	}
	uc.metrics.ObserveTransaction(string(params.Action)+"Role", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	result.Tx = tx
	result.HasRole = params.Action == RoleActionGrant
	result.Changed = before != result.HasRole

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Roles updated"})
	return result, nil
}
