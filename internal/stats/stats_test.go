package stats_test

import (
	"maps"
	"slices"
	"testing"

	"github.com/CZERTAINLY/log-lens/internal/model"
	"github.com/CZERTAINLY/log-lens/internal/stats"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s := stats.New(t.Name())
	require.NotNil(t, s)
}

func TestIncFiles(t *testing.T) {
	s := stats.New(t.Name())

	for range 10 {
		s.IncFiles()
	}

	collected := maps.Collect(s.Stats())
	require.Equal(t, "10", collected[t.Name()+model.StatsFilesTotal])
}

func TestIncErrFiles(t *testing.T) {
	s := stats.New(t.Name())

	s.IncErrFiles()
	s.IncErrFiles()
	s.IncErrFiles()
	s.IncErrFiles()

	collected := maps.Collect(s.Stats())
	require.Equal(t, "4", collected[t.Name()+model.StatsFilesErr])
}

func TestAddLines(t *testing.T) {
	s := stats.New(t.Name())

	s.AddLines(10, 6, 2, 1)
	s.AddLines(5, 5, 0, 0)

	collected := maps.Collect(s.Stats())
	require.Equal(t, "15", collected[t.Name()+model.StatsLinesTotal])
	require.Equal(t, "11", collected[t.Name()+model.StatsLinesMatched])
	require.Equal(t, "2", collected[t.Name()+model.StatsLinesUnattributed])
	require.Equal(t, "1", collected[t.Name()+model.StatsLinesSkipped])
}

func TestStatsIterator(t *testing.T) {
	s := stats.New(t.Name())

	s.IncFiles()
	s.IncFiles()
	s.IncErrFiles()
	s.AddLines(3, 2, 1, 0)

	collected := maps.Collect(s.Stats())

	require.Len(t, collected, 6)
	require.Equal(t, "2", collected[t.Name()+model.StatsFilesTotal])
	require.Equal(t, "1", collected[t.Name()+model.StatsFilesErr])
	require.Equal(t, "3", collected[t.Name()+model.StatsLinesTotal])
	require.Equal(t, "2", collected[t.Name()+model.StatsLinesMatched])
	require.Equal(t, "1", collected[t.Name()+model.StatsLinesUnattributed])
	require.Equal(t, "0", collected[t.Name()+model.StatsLinesSkipped])

	var keys []string
	for k := range s.Stats() {
		keys = append(keys, k)
	}
	require.True(t, slices.IsSorted(keys))
}

func TestStatsIteratorFiltersPrefix(t *testing.T) {
	s1 := stats.New("prefix-1")
	s2 := stats.New("prefix-2")

	s1.IncFiles()
	s2.IncFiles()
	s2.IncFiles()

	collected := maps.Collect(s1.Stats())

	require.Len(t, collected, 6)
	for k := range collected {
		require.True(t, len(k) > 0 && k[:8] == "prefix-1", "key %s should start with prefix-1", k)
	}
}

func TestStatsInterfaceImplementation(t *testing.T) {
	var _ model.Stats = (*stats.Stats)(nil)
}

func TestConcurrentIncrements(t *testing.T) {
	s := stats.New(t.Name())

	done := make(chan bool)
	for range 10 {
		go func() {
			for range 100 {
				s.IncFiles()
				s.AddLines(2, 1, 0, 0)
			}
			done <- true
		}()
	}

	for range 10 {
		<-done
	}

	collected := maps.Collect(s.Stats())
	require.Equal(t, "1000", collected[t.Name()+model.StatsFilesTotal])
	require.Equal(t, "2000", collected[t.Name()+model.StatsLinesTotal])
	require.Equal(t, "1000", collected[t.Name()+model.StatsLinesMatched])
}
