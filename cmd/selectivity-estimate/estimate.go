// Copyright 2026 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"sync"

	"github.com/pingcap/errors"
	"github.com/pingcap/tidb-selectivity/pkg/config"
	"github.com/pingcap/tidb-selectivity/pkg/expression"
	"github.com/pingcap/tidb-selectivity/pkg/metrics"
	"github.com/pingcap/tidb-selectivity/pkg/planner/cardinality"
	"github.com/pingcap/tidb-selectivity/pkg/statistics"
	"github.com/pingcap/tidb-selectivity/pkg/statistics/handle"
	statsmetrics "github.com/pingcap/tidb-selectivity/pkg/statistics/handle/metrics"
	"github.com/pingcap/tidb-selectivity/pkg/types"
	"github.com/pingcap/tidb-selectivity/pkg/util/logutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	// FlagConfig is the name of config flag.
	FlagConfig = "config"
	// FlagLogLevel is the name of log-level flag.
	FlagLogLevel = "log-level"
	// FlagStats is the name of stats flag.
	FlagStats = "stats"
	// FlagTable is the name of table flag.
	FlagTable = "table"
	// FlagPredicate is the name of predicate flag.
	FlagPredicate = "predicate"
	// FlagParam is the name of param flag.
	FlagParam = "param"
	// FlagTrace is the name of trace flag.
	FlagTrace = "trace"
)

var registerOnce sync.Once

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "selectivity-estimate",
		Short:        "selectivity-estimate estimates how many rows of a table a predicate selects.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runEstimate,
	}
	cmd.Flags().String(FlagConfig, "", "Set the path of the config file")
	cmd.Flags().StringP(FlagLogLevel, "L", "", "Set the log level, overrides the config file")
	cmd.Flags().String(FlagStats, "", "Set the path of the statistics file")
	cmd.Flags().String(FlagTable, "", "Set the table the predicate is evaluated against")
	cmd.Flags().String(FlagPredicate, "", "Set the predicate in JSON")
	cmd.Flags().StringArray(FlagParam, nil, "Bind a parameter value in JSON, repeat it for every placeholder in order")
	cmd.Flags().Bool(FlagTrace, false, "Print how every node of the predicate is estimated")
	_ = cmd.MarkFlagRequired(FlagStats)
	_ = cmd.MarkFlagRequired(FlagTable)
	_ = cmd.MarkFlagRequired(FlagPredicate)
	return cmd
}

func initGlobals(cmd *cobra.Command) (*config.Config, error) {
	confPath, err := cmd.Flags().GetString(FlagConfig)
	if err != nil {
		return nil, errors.Trace(err)
	}
	level, err := cmd.Flags().GetString(FlagLogLevel)
	if err != nil {
		return nil, errors.Trace(err)
	}
	err = config.InitializeConfig(confPath, func(cfg *config.Config) {
		if level != "" {
			cfg.Log.Level = level
		}
	})
	if err != nil {
		return nil, err
	}
	cfg := config.GetGlobalConfig()
	if err := logutil.InitLogger(cfg.Log.ToLogConfig()); err != nil {
		return nil, errors.Trace(err)
	}
	registerOnce.Do(func() {
		metrics.SetConstLabels(cfg.LabelPairs()...)
		metrics.InitMetrics()
		statsmetrics.InitMetricsVars()
		metrics.RegisterMetrics()
	})
	return cfg, nil
}

func parseParams(raw []string) ([]types.Datum, error) {
	params := make([]types.Datum, 0, len(raw))
	for i, s := range raw {
		d, err := expression.DecodeJSONValue([]byte(s))
		if err != nil {
			return nil, errors.Annotatef(err, "param %d", i)
		}
		params = append(params, d)
	}
	return params, nil
}

func runEstimate(cmd *cobra.Command, _ []string) error {
	cfg, err := initGlobals(cmd)
	if err != nil {
		return err
	}
	statsPath, _ := cmd.Flags().GetString(FlagStats)
	table, _ := cmd.Flags().GetString(FlagTable)
	predicate, _ := cmd.Flags().GetString(FlagPredicate)
	rawParams, _ := cmd.Flags().GetStringArray(FlagParam)
	trace, _ := cmd.Flags().GetBool(FlagTrace)

	expr, err := expression.DecodeJSON([]byte(predicate))
	if err != nil {
		return errors.Annotate(err, "decode predicate")
	}
	params, err := parseParams(rawParams)
	if err != nil {
		return err
	}

	h := handle.NewHandle()
	if err := h.LoadFile(statsPath, statistics.WithMCVTarget(cfg.Estimator.MCVTarget)); err != nil {
		return err
	}
	stats, ok := h.Get(table)
	if !ok {
		// Estimating against empty statistics would silently answer 0.
		return errors.Errorf("table %s not found in %s", table, statsPath)
	}

	estimator := cardinality.NewEstimator(cardinality.OptionsFromConfig(&cfg.Estimator))
	rows, records, err := estimator.EstimateRowCountWithTrace(stats, expr, params)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logutil.WithKeyValue(logutil.WithCategory(ctx, "estimator"), logutil.LogFieldTable, table)
	logutil.Logger(ctx).Debug("predicate estimated",
		zap.Stringer("predicate", expr),
		zap.Int("params", len(params)),
		zap.Int64("rows", rows))
	if trace {
		cmd.Print(cardinality.FormatTrace(records))
	}
	cmd.Println(rows)
	return nil
}
