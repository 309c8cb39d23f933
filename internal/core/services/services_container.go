package services

import (
	"fmt"

	"github.com/SscSPs/reward_ledger/internal/core/earning"
	portsrepo "github.com/SscSPs/reward_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/reward_ledger/internal/core/ports/services"
	"github.com/SscSPs/reward_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// notifier may be nil, in which case withdrawal resolutions schedule no notification.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.WithdrawalNotifier) (*portssvc.ServiceContainer, error) {
	engine, err := earning.NewEngine(cfg.RewardPolicy, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid reward policy: %w", err)
	}

	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, repos.LedgerRepo)
	container.Task = NewTaskService(repos.TaskRepo, repos.AccountRepo)
	container.Earning = NewEarningService(repos, engine, WithAdSessionTTL(cfg.AdSessionTTL))

	withdrawalOpts := []WithdrawalServiceOption{}
	if notifier != nil {
		withdrawalOpts = append(withdrawalOpts, WithWithdrawalNotifier(notifier))
	}
	container.Withdrawal = NewWithdrawalService(repos, cfg.MinWithdrawal, withdrawalOpts...)

	container.Auth = NewAuthService(cfg, repos.AccountRepo, repos.AdminRepo)
	container.GoogleOAuth = NewGoogleOAuthHandlerService(cfg)

	return container, nil
}
