package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/numex/internal/errors"
)

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	ds, err := Load(filepath.Join("testdata", "histogram.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1.0, 1.5, 2.0, 3.5, -1}, ds.Data)
	assert.Equal(t, []float64{0, 1, 2, 4}, ds.Edges)
	assert.Nil(t, ds.N)
	assert.Empty(t, ds.Mode)
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()
	ds, err := Load(filepath.Join("testdata", "energy.json"))
	require.NoError(t, err)
	require.NotNil(t, ds.EiOrEf)
	require.NotNil(t, ds.Tof)
	assert.InDelta(t, 8.01e-21, *ds.EiOrEf, 1e-30)
	assert.Equal(t, 0.005, *ds.Tof)
	assert.Equal(t, 10.0, *ds.L1)
	assert.Equal(t, 2.0, *ds.L2)
	assert.Equal(t, "direct", ds.Mode)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join("testdata", "unknown_key.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestLoadUnsupportedExtension(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "data.toml")
	require.NoError(t, os.WriteFile(path, []byte("data = [1]"), 0o644))

	_, err := Load(path)
	var cfgErr apperrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseFloatList(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		in      string
		want    []float64
		wantErr bool
	}{
		{name: "empty", in: "", want: nil},
		{name: "blank", in: "   ", want: nil},
		{name: "single", in: "3.5", want: []float64{3.5}},
		{name: "spaces", in: " 1, 2 ,3 ", want: []float64{1, 2, 3}},
		{name: "exponent", in: "1e-3,-2E2", want: []float64{0.001, -200}},
		{name: "empty element", in: "1,,2", wantErr: true},
		{name: "garbage", in: "1,abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseFloatList(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFloatListNonFinite(t *testing.T) {
	t.Parallel()
	got, err := ParseFloatList("Inf,-Inf,NaN")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, math.IsInf(got[0], 1))
	assert.True(t, math.IsInf(got[1], -1))
	assert.True(t, math.IsNaN(got[2]))
}

func TestFormatFloatListRoundTrip(t *testing.T) {
	t.Parallel()
	in := []float64{0, 1.5, -2, 1e-9}
	out, err := ParseFloatList(FormatFloatList(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
