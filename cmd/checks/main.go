package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vestaclub/vesta/modules/finance/domain/aggregates/investment"
	"github.com/vestaclub/vesta/modules/finance/infrastructure/persistence"
	"github.com/vestaclub/vesta/modules/finance/services"
	"github.com/vestaclub/vesta/pkg/composables"
	"github.com/vestaclub/vesta/pkg/configuration"
	"github.com/vestaclub/vesta/pkg/notify"
)

// checks is the cron entrypoint: each subcommand runs one pull-based
// check against current data and dispatches the resulting notifications.
// The checks themselves are read-only, so a failed run can simply be
// retried.
func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var nowFlag string

	root := &cobra.Command{
		Use:           "checks",
		Short:         "Run the scheduled portal checks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&nowFlag, "now", "", "override the check instant (YYYY-MM-DD or RFC 3339)")

	root.AddCommand(
		&cobra.Command{
			Use:   "renewal-window",
			Short: "Notify owners of investments inside the renewal window",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runCheck(cmd.Context(), nowFlag, func(ctx context.Context, env *checkEnv, now time.Time) error {
					due, err := env.schedule.CheckRenewalWindow(ctx, now)
					if err != nil {
						return err
					}
					return env.announce(ctx, due, "renewal_window_open")
				})
			},
		},
		&cobra.Command{
			Use:   "accrual-gate",
			Short: "Notify owners whose 60-day accrual gate was crossed recently",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runCheck(cmd.Context(), nowFlag, func(ctx context.Context, env *checkEnv, now time.Time) error {
					crossed, err := env.schedule.CheckAccrualGateCrossed(ctx, now)
					if err != nil {
						return err
					}
					return env.announce(ctx, crossed, "accrual_started")
				})
			},
		},
		&cobra.Command{
			Use:   "payout-day",
			Short: "On the fifth business day, notify owners of earning investments",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runCheck(cmd.Context(), nowFlag, func(ctx context.Context, env *checkEnv, now time.Time) error {
					result, err := env.schedule.CheckFixedPayoutDay(ctx, now)
					if err != nil {
						return err
					}
					if !result.IsPayoutDay {
						env.logger.Info("not a payout day, nothing to do")
						return nil
					}
					return env.announce(ctx, result.Investments, "dividend_payout")
				})
			},
		},
	)
	return root
}

type checkEnv struct {
	schedule   *services.ScheduleService
	dispatcher notify.Dispatcher
	logger     *logrus.Logger
}

func (e *checkEnv) announce(ctx context.Context, items []investment.Investment, event string) error {
	for _, inv := range items {
		err := e.dispatcher.Dispatch(ctx, notify.Notification{
			RecipientID: inv.OwnerID(),
			Event:       event,
			Payload: map[string]string{
				"investment_id": inv.ID().String(),
			},
		})
		if err != nil {
			e.logger.WithError(err).WithField("investment_id", inv.ID().String()).
				Warn("notification dispatch failed")
		}
	}
	e.logger.WithFields(logrus.Fields{"event": event, "count": len(items)}).Info("check complete")
	return nil
}

func runCheck(ctx context.Context, nowFlag string, fn func(context.Context, *checkEnv, time.Time) error) error {
	conf := configuration.Use()
	logger := conf.Logger()

	now := time.Now()
	if nowFlag != "" {
		parsed, err := time.Parse(time.DateOnly, nowFlag)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, nowFlag)
		}
		if err != nil {
			return fmt.Errorf("invalid --now value %q", nowFlag)
		}
		now = parsed
	}

	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return err
	}
	defer pool.Close()
	ctx = composables.WithPool(ctx, pool)

	env := &checkEnv{
		schedule: services.NewScheduleService(
			persistence.NewInvestmentRepository(),
			clockwork.NewRealClock(),
			services.ScheduleConfig{
				RenewalWindowBefore: conf.Finance.RenewalWindowBefore,
				RenewalWindowAfter:  conf.Finance.RenewalWindowAfter,
				AccrualGateLookback: conf.Finance.AccrualGateLookback,
				PayoutBusinessDay:   conf.Finance.PayoutBusinessDay,
			},
		),
		dispatcher: notify.NewLogDispatcher(logger),
		logger:     logger,
	}
	return fn(ctx, env, now)
}
