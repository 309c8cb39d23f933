package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/reward_ledger/internal/core/ports/services"
	"github.com/SscSPs/reward_ledger/internal/utils"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// WithdrawalResolvedArgs tells the account holder that an admin approved or rejected a withdrawal.
type WithdrawalResolvedArgs struct {
	WithdrawalID string                  `json:"withdrawal_id"`
	AccountID    string                  `json:"account_id"`
	Amount       int64                   `json:"amount"`
	Status       domain.WithdrawalStatus `json:"status"`
	Remarks      string                  `json:"remarks,omitempty"`
}

func (WithdrawalResolvedArgs) Kind() string { return "withdrawal_resolved" }

func (WithdrawalResolvedArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{MaxAttempts: 8}
}

// Sender delivers a text message to an account holder.
type Sender interface {
	Send(ctx context.Context, accountID string, text string) error
}

type WithdrawalResolvedWorker struct {
	river.WorkerDefaults[WithdrawalResolvedArgs]
	sender   Sender
	exponent int32
}

func NewWithdrawalResolvedWorker(sender Sender, exponent int32) *WithdrawalResolvedWorker {
	return &WithdrawalResolvedWorker{sender: sender, exponent: exponent}
}

func (w *WithdrawalResolvedWorker) Timeout(*river.Job[WithdrawalResolvedArgs]) time.Duration {
	return 30 * time.Second
}

// Work sends the message. A failed send is retried by river; the ledger is already settled.
func (w *WithdrawalResolvedWorker) Work(ctx context.Context, job *river.Job[WithdrawalResolvedArgs]) error {
	if err := w.sender.Send(ctx, job.Args.AccountID, w.message(job.Args)); err != nil {
		return fmt.Errorf("notify withdrawal %s: %w", job.Args.WithdrawalID, err)
	}
	return nil
}

func (w *WithdrawalResolvedWorker) message(args WithdrawalResolvedArgs) string {
	amount := utils.FormatMinorUnits(args.Amount, w.exponent)
	switch args.Status {
	case domain.WithdrawalApproved:
		return fmt.Sprintf("Your withdrawal of %s has been approved and is on its way.", amount)
	case domain.WithdrawalRejected:
		return fmt.Sprintf("Your withdrawal of %s was rejected and the amount is back in your balance. Remarks: %s", amount, args.Remarks)
	default:
		return fmt.Sprintf("Your withdrawal of %s is %s.", amount, args.Status)
	}
}

// txInserter is the part of river.Client used to enqueue jobs.
type txInserter interface {
	InsertTx(ctx context.Context, tx pgx.Tx, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// Enqueuer schedules withdrawal notifications inside the resolving transaction, so a job
// exists if and only if the resolution commits.
type Enqueuer struct {
	client txInserter
	logger *slog.Logger
}

func NewEnqueuer(client txInserter, logger *slog.Logger) *Enqueuer {
	return &Enqueuer{client: client, logger: logger}
}

var _ portssvc.WithdrawalNotifier = (*Enqueuer)(nil)

func (e *Enqueuer) NotifyWithdrawalResolvedTx(ctx context.Context, tx pgx.Tx, w domain.WithdrawalRequest) error {
	res, err := e.client.InsertTx(ctx, tx, WithdrawalResolvedArgs{
		WithdrawalID: w.WithdrawalID,
		AccountID:    w.AccountID,
		Amount:       w.Amount,
		Status:       w.Status,
		Remarks:      w.Remarks,
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueue withdrawal notification: %w", err)
	}
	e.logger.Debug("Withdrawal notification enqueued",
		slog.String("withdrawal_id", w.WithdrawalID), slog.Int64("job_id", res.Job.ID))
	return nil
}
