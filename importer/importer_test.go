package importer_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspmip/importer"
	"github.com/katalvlaran/tspmip/mip"
	"github.com/katalvlaran/tspmip/mip/simplex"
)

// writeModel writes a 105-row LP where rows 80..99 cap a + b at 3 and
// rows 100..101 cap a at 6 and b at 7. All other rows are slack.
func writeModel(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("\\ Model: layered\nMaximize\n obj: a + b\nSubject To\n")
	for i := 0; i < 80; i++ {
		fmt.Fprintf(&b, " loose_%d: a + b <= %d\n", i, 100+i)
	}
	for i := 80; i < 100; i++ {
		fmt.Fprintf(&b, " tight_%d: a + b <= 3\n", i)
	}
	b.WriteString(" capa: a <= 6\n capb: b <= 7\n")
	for i := 102; i < 105; i++ {
		fmt.Fprintf(&b, " tail_%d: a - b <= %d\n", i, i)
	}
	b.WriteString("Generals\n a b\nEnd\n")

	path := filepath.Join(t.TempDir(), "layered.lp")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	return path
}

func config(path string) importer.Config {
	cfg := importer.DefaultConfig()
	cfg.ModelPath = path

	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := importer.DefaultConfig()
	assert.Equal(t, "model_1809.lp", cfg.ModelPath)
	assert.Equal(t, 80, cfg.RemoveFrom)
	assert.Equal(t, 20, cfg.RemoveCount)
	assert.Empty(t, cfg.ExportPath)
	assert.Equal(t, mip.DefaultParams(), cfg.Params)
}

func TestRun_RemovesRangeAndResolves(t *testing.T) {
	logger, hook := test.NewNullLogger()
	cfg := config(writeModel(t))
	cfg.Logger = logger

	rep, err := importer.Run(context.Background(), simplex.New(), cfg)
	require.NoError(t, err)

	assert.Equal(t, "layered", rep.Model)
	assert.Equal(t, 105, rep.ConstraintsBefore)
	assert.Equal(t, 85, rep.ConstraintsAfter)
	assert.Equal(t, mip.Optimal, rep.Status)
	assert.InDelta(t, 13, rep.Objective, 1e-6)
	require.Len(t, rep.Values, 2)
	assert.Equal(t, "a", rep.Values[0].Name)
	assert.InDelta(t, 6, rep.Values[0].Value, 1e-6)
	assert.Equal(t, "b", rep.Values[1].Name)
	assert.InDelta(t, 7, rep.Values[1].Value, 1e-6)

	msgs := map[string]int{}
	for _, e := range hook.AllEntries() {
		if c, ok := e.Data["constraints"].(int); ok {
			msgs[e.Message] = c
		}
	}
	assert.Equal(t, 105, msgs["model imported"])
	assert.Equal(t, 85, msgs["constraints removed"])

	out := rep.String()
	assert.Contains(t, out, "status: optimal\n")
	assert.Contains(t, out, "objective: 13\n")
	assert.Contains(t, out, "a = 6\n")
	assert.Contains(t, out, "b = 7\n")
}

func TestRun_KeepAllRows(t *testing.T) {
	cfg := config(writeModel(t))
	cfg.RemoveCount = 0

	rep, err := importer.Run(context.Background(), simplex.New(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 105, rep.ConstraintsAfter)
	assert.InDelta(t, 3, rep.Objective, 1e-6)
}

func TestRun_ExportsReducedModel(t *testing.T) {
	cfg := config(writeModel(t))
	cfg.ExportPath = filepath.Join(t.TempDir(), "reduced.lp")

	_, err := importer.Run(context.Background(), simplex.New(), cfg)
	require.NoError(t, err)

	m, err := mip.ImportLP(cfg.ExportPath)
	require.NoError(t, err)
	assert.Equal(t, 85, m.NumConstraints())
	assert.Equal(t, "loose_79", m.Constraints()[79].Name())
	assert.Equal(t, "capa", m.Constraints()[80].Name())
}

func TestRun_Errors(t *testing.T) {
	path := writeModel(t)

	_, err := importer.Run(context.Background(), simplex.New(), importer.Config{})
	assert.ErrorIs(t, err, importer.ErrNoModelPath)

	_, err = importer.Run(context.Background(), simplex.New(), config(filepath.Join(t.TempDir(), "missing.lp")))
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg := config(path)
	cfg.RemoveFrom = 100
	rep, err := importer.Run(context.Background(), simplex.New(), cfg)
	assert.ErrorIs(t, err, mip.ErrRangeOutOfBounds)
	assert.Equal(t, 105, rep.ConstraintsBefore)

	cfg = config(path)
	cfg.RemoveCount = -1
	_, err = importer.Run(context.Background(), simplex.New(), cfg)
	assert.ErrorIs(t, err, mip.ErrRangeOutOfBounds)

	_, err = importer.Run(context.Background(), nil, config(path))
	assert.ErrorIs(t, err, mip.ErrNoBackend)

	bad := filepath.Join(t.TempDir(), "bad.lp")
	require.NoError(t, os.WriteFile(bad, []byte("Minimize\n obj: x\nSubject To\n c1: x >= \nEnd\n"), 0o644))
	_, err = importer.Run(context.Background(), simplex.New(), config(bad))
	assert.ErrorIs(t, err, mip.ErrLPSyntax)
}

func TestRun_InfeasibleIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "infeasible.lp")
	lp := "Minimize\n obj: x\nSubject To\n lo: x >= 5\n hi: x <= 3\nEnd\n"
	require.NoError(t, os.WriteFile(path, []byte(lp), 0o644))

	cfg := config(path)
	cfg.RemoveCount = 0
	rep, err := importer.Run(context.Background(), simplex.New(), cfg)
	require.NoError(t, err)
	assert.Equal(t, mip.Infeasible, rep.Status)
	assert.Nil(t, rep.Values)
	assert.Equal(t, "status: infeasible\n", rep.String())
	assert.Equal(t, "infeasible", rep.Model)
}
