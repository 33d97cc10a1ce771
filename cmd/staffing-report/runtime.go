package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/iota-staffing/modules/staffing/infrastructure/files"
	"github.com/iota-uz/iota-staffing/modules/staffing/infrastructure/persistence"
	"github.com/iota-uz/iota-staffing/modules/staffing/services"
	"github.com/iota-uz/iota-staffing/pkg/composables"
	"github.com/iota-uz/iota-staffing/pkg/configuration"
	"github.com/iota-uz/iota-staffing/pkg/metrics"
)

// runtime is what every command needs: configuration, a context carrying the logger (and pool),
// and the service bound to the configured backend.
type runtime struct {
	ctx   context.Context
	conf  *configuration.Configuration
	svc   *services.StaffingService
	runID string
	log   *logrus.Entry
	pool  *pgxpool.Pool
}

func setup(cmd *cobra.Command, opts *globalOptions) (*runtime, error) {
	conf, err := configuration.Load(opts.envFiles)
	if err != nil {
		return nil, withCode(exitUsage, fmt.Errorf("load configuration: %w", err))
	}
	if err := applyOverrides(cmd, opts, conf); err != nil {
		conf.Unload()
		return nil, err
	}

	rt := &runtime{conf: conf, runID: uuid.NewString()}
	rt.log = conf.Logger().WithFields(logrus.Fields{"run_id": rt.runID, "command": cmd.Name()})
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = composables.WithLogger(ctx, rt.log)

	var repo services.Repository
	switch conf.Staffing.Source {
	case configuration.SourceDB:
		pool, err := pgxpool.New(ctx, conf.Database.Opts)
		if err != nil {
			conf.Unload()
			return nil, withCode(exitStorage, fmt.Errorf("connect db: %w", err))
		}
		rt.pool = pool
		ctx = composables.WithPool(ctx, pool)
		repo = persistence.NewStaffingRepository()
	default:
		repo = files.NewRepository(conf.Staffing.DataDir)
	}

	rt.ctx = ctx
	rt.svc = services.NewStaffingService(repo, conf.Staffing.PrimaryUnit)
	rt.log.WithFields(logrus.Fields{
		"source":   conf.Staffing.Source,
		"data_dir": conf.Staffing.DataDir,
	}).Debug("staffing.report.start")
	return rt, nil
}

func applyOverrides(cmd *cobra.Command, opts *globalOptions, conf *configuration.Configuration) error {
	flags := cmd.Flags()
	if flags.Changed("source") {
		conf.Staffing.Source = opts.source
	}
	if flags.Changed("data-dir") {
		conf.Staffing.DataDir = opts.dataDir
	}
	if flags.Changed("primary-unit") {
		conf.Staffing.PrimaryUnit = opts.primaryUnit
	}
	if flags.Changed("currency") {
		conf.Staffing.Currency = opts.currency
	}
	if flags.Changed("metrics-textfile") {
		conf.Staffing.MetricsTextfile = opts.metricsTextfile
	}
	if err := conf.Staffing.Validate(); err != nil {
		return withCode(exitUsage, err)
	}
	return nil
}

// close releases the pool and dumps metrics. A metrics failure is logged, never returned.
func (rt *runtime) close() {
	if rt.pool != nil {
		rt.pool.Close()
	}
	if err := metrics.WriteTextfile(rt.conf.Staffing.MetricsTextfile, nil); err != nil {
		rt.log.WithError(err).Warn("staffing.report.metrics_failed")
	}
	rt.conf.Unload()
}
