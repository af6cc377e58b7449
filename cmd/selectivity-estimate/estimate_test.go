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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pingcap/tidb-selectivity/pkg/config"
	"github.com/pingcap/tidb-selectivity/pkg/util/dbterror/plannererrors"
	"github.com/stretchr/testify/require"
)

const statsFile = "../../pkg/statistics/handle/storage/testdata/stats.toml"

func execute(t *testing.T, args ...string) (string, error) {
	restore := config.RestoreFunc()
	t.Cleanup(restore)
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEstimate(t *testing.T) {
	out, err := execute(t, "--stats", statsFile, "--table", "t",
		"--predicate", `{"func": "eq", "args": [{"column": "x"}, {"value": 10}]}`)
	require.NoError(t, err)
	require.Equal(t, "8\n", out)

	out, err = execute(t, "--stats", statsFile, "--table", "j",
		"--predicate", `{"func": "eq", "args": [{"column": "x"}, {"column": "y"}]}`)
	require.NoError(t, err)
	require.Equal(t, "2\n", out)

	out, err = execute(t, "--stats", statsFile, "--table", "n", "-L", "warn",
		"--predicate", `{"func": "or", "args": [{"func": "isnull", "args": [{"column": "x"}]}, {"func": "eq", "args": [{"column": "x"}, {"param": 0}]}]}`,
		"--param", "2")
	require.NoError(t, err)
	// 100 * (1 - 0.5 * 0.5)
	require.Equal(t, "75\n", out)
}

func TestEstimateTrace(t *testing.T) {
	out, err := execute(t, "--stats", statsFile, "--table", "t", "--trace",
		"--predicate", `{"func": "not", "args": [{"func": "eq", "args": [{"column": "x"}, {"value": 1}]}]}`)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[1], "eq(x, 1)")
	require.Contains(t, lines[1], "mcv")
	require.Contains(t, lines[2], "not")
	require.Equal(t, "15", lines[3])
}

func TestEstimateConfig(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(confPath, []byte(`
[estimator]
default-selectivity = 0.5
`), 0o644))
	out, err := execute(t, "--config", confPath, "--stats", statsFile, "--table", "t",
		"--predicate", `{"func": "lt", "args": [{"column": "x"}, {"value": 10}]}`)
	require.NoError(t, err)
	require.Equal(t, "11\n", out)

	require.NoError(t, os.WriteFile(confPath, []byte(`
[estimator]
default-selectivity = 2
`), 0o644))
	_, err = execute(t, "--config", confPath, "--stats", statsFile, "--table", "t",
		"--predicate", `{"value": true}`)
	require.True(t, plannererrors.ErrInvalidConfig.Equal(err), "%v", err)
}

func TestEstimateErrors(t *testing.T) {
	_, err := execute(t, "--stats", statsFile, "--table", "missing", "--predicate", `{"value": true}`)
	require.ErrorContains(t, err, "table missing not found")

	_, err = execute(t, "--stats", statsFile, "--table", "t", "--predicate", `{"func": "eq"`)
	require.ErrorContains(t, err, "decode predicate")

	_, err = execute(t, "--stats", statsFile, "--table", "t", "--predicate", `{"value": true}`, "--param", "[1]")
	require.ErrorContains(t, err, "param 0")

	_, err = execute(t, "--stats", statsFile, "--table", "t",
		"--predicate", `{"func": "eq", "args": [{"column": "x"}, {"value": "a"}]}`)
	require.True(t, plannererrors.ErrTypeMismatch.Equal(err), "%v", err)

	_, err = execute(t, "--stats", filepath.Join(t.TempDir(), "none.toml"), "--table", "t", "--predicate", `{"value": true}`)
	require.Error(t, err)

	_, err = execute(t, "--table", "t", "--predicate", `{"value": true}`)
	require.ErrorContains(t, err, "stats")
}

func TestEstimateLogsWithContext(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "estimate.log")
	confPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(confPath, []byte(`
[log]
level = "debug"

[log.file]
filename = "`+filepath.ToSlash(logFile)+`"
`), 0o644))
	out, err := execute(t, "--config", confPath, "--stats", statsFile, "--table", "t",
		"--predicate", `{"func": "eq", "args": [{"column": "x"}, {"value": 10}]}`)
	require.NoError(t, err)
	require.Equal(t, "8\n", out)

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	var line string
	for _, l := range strings.Split(string(content), "\n") {
		if strings.Contains(l, "predicate estimated") {
			line = l
		}
	}
	require.Contains(t, line, "[category=estimator]")
	require.Contains(t, line, "[table=t]")
	require.Contains(t, line, "[rows=8]")
}
