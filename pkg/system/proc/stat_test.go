//go:build linux

package proc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStat_Basic(t *testing.T) {
	rec, err := parseStat(statLine(1234, "nginx", 'S', 1, 1500, 300, 50000))
	require.NoError(t, err)
	assert.Equal(t, 1234, rec.PID)
	assert.Equal(t, "nginx", rec.Comm)
	assert.Equal(t, byte('S'), rec.State)
	assert.Equal(t, 1, rec.PPID)
	assert.Equal(t, uint64(1500), rec.UTime)
	assert.Equal(t, uint64(300), rec.STime)
	assert.Equal(t, uint64(10), rec.CUTime)
	assert.Equal(t, uint64(5), rec.CSTime)
	assert.Equal(t, uint64(50000), rec.StartTicks)
	assert.Equal(t, uint64(1800), rec.TotalTicks())
}

func TestParseStat_NameWithParens(t *testing.T) {
	// a process is free to call itself "a)b"; the parser must find the LAST ')'
	rec, err := parseStat(statLine(77, "a)b", 'R', 1, 42, 8, 123))
	require.NoError(t, err)
	assert.Equal(t, "a)b", rec.Comm)
	assert.Equal(t, byte('R'), rec.State)
	assert.Equal(t, uint64(42), rec.UTime)
	assert.Equal(t, uint64(123), rec.StartTicks)
}

func TestParseStat_NameWithSpacesAndParens(t *testing.T) {
	rec, err := parseStat(statLine(9, "tricky (name) here", 'D', 2, 1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, "tricky (name) here", rec.Comm)
	assert.Equal(t, 2, rec.PPID)
}

func TestParseStat_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"whitespace":   "   \n",
		"no_parens":    "1234 comm S 1 2 3",
		"only_open":    "1234 (comm S 1 2 3",
		"pid_nonnum":   "abc (x) S 1 2 3",
		"pid_zero":     "0 (x) S 1 2 3",
		"reversed":     ") ( 1234",
		"name_only":    "1234 (x)",
		"negative_pid": "-5 (x) S 1 2 3",
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseStat(line)
			require.Error(t, err)
		})
	}
}

func TestParseStat_ShortRecord(t *testing.T) {
	// too few fields to reach starttime: absent, not an error escalation
	_, err := parseStat("1234 (x) S 1 2 3 4 5\n")
	require.ErrorIs(t, err, ErrShortStat)
}

func TestParseStat_NegativePPIDClamped(t *testing.T) {
	rec, err := parseStat(statLine(5, "x", 'S', -1, 0, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, rec.PPID)
}

func TestReadStat_FakeRoot(t *testing.T) {
	fs, root := newFakeRoot(t)
	writeFile(t, filepath.Join(root, "42", "stat"), statLine(42, "worker", 'S', 1, 1000, 200, 777))

	rec, err := fs.ReadStat(42)
	require.NoError(t, err)
	assert.Equal(t, 42, rec.PID)
	assert.Equal(t, "worker", rec.Comm)

	_, err = fs.ReadStat(43)
	require.Error(t, err, "vanished pid reads as absent")
}

func TestReadTaskStat_FakeRoot(t *testing.T) {
	fs, root := newFakeRoot(t)
	writeFile(t, filepath.Join(root, "42", "task", "43", "stat"), statLine(43, "worker/1", 'S', 1, 50, 10, 777))

	rec, err := fs.ReadTaskStat(42, 43)
	require.NoError(t, err)
	assert.Equal(t, 43, rec.PID)
	assert.Equal(t, uint64(60), rec.TotalTicks())
}

func TestReadStat_Self(t *testing.T) {
	if _, err := os.Stat("/proc/self"); err != nil {
		t.Skip("no live procfs")
	}
	fs, err := NewFS("/proc")
	require.NoError(t, err)

	rec, err := fs.ReadStat(os.Getpid())
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), rec.PID)
	assert.NotEmpty(t, rec.Comm)
	assert.Greater(t, rec.StartTicks, uint64(0))
}
