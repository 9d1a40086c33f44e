//go:build linux

package top

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortField(t *testing.T) {
	cases := []struct {
		in      string
		want    SortField
		wantErr bool
	}{
		{"cpu", SortCPU, false},
		{"CPU", SortCPU, false},
		{"", SortCPU, false},
		{"mem", SortMemory, false},
		{"memory", SortMemory, false},
		{"rss", SortMemory, false},
		{"pid", SortPID, false},
		{"command", SortCommand, false},
		{"cmd", SortCommand, false},
		{"cputime", SortCPUTime, false},
		{"time", SortCPUTime, false},
		{"bogus", SortCPU, true},
	}
	for _, tc := range cases {
		t.Run("in_"+tc.in, func(t *testing.T) {
			got, err := ParseSortField(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSortField_RoundTrip(t *testing.T) {
	for _, f := range []SortField{SortCPU, SortMemory, SortPID, SortCommand, SortCPUTime} {
		got, err := ParseSortField(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
}

func TestIdentity_String(t *testing.T) {
	assert.Equal(t, "42", Identity{PID: 42}.String())
	assert.Equal(t, "42/43", Identity{PID: 42, TID: 43}.String())
}

func TestSample_JSONShape(t *testing.T) {
	s := Sample{PID: 1, PPID: 0, State: "S", Comm: "init", Command: "/sbin/init", Kind: KindProcess}
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"kind":"process"`)
	assert.NotContains(t, string(b), `"tid"`, "zero tid is omitted for process rows")

	th := Sample{PID: 1, TID: 7, Kind: KindThread}
	b, err = json.Marshal(th)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"kind":"thread"`)
	assert.Contains(t, string(b), `"tid":7`)
}
