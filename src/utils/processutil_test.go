package utils

import (
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRound1(t *testing.T) {
	assert.Equal(t, 8.3, Round1(8.333333))
	assert.Equal(t, 8.4, Round1(8.35))
	assert.Equal(t, 0.0, Round1(0))
	assert.Equal(t, -1.5, Round1(-1.46))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"JFK", "LAX"}, "LAX"))
	assert.False(t, Contains([]string{"JFK", "LAX"}, "PEK"))
	assert.True(t, Contains([]int{1, 2, 3}, 2))
}

func TestHasColumn(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"Origin", "Dest"},
		{"JFK", "LAX"},
	}, dataframe.DetectTypes(false))
	require.NoError(t, df.Err)

	assert.True(t, HasColumn(df, "Origin"))
	assert.False(t, HasColumn(df, "Airline"))
}

func TestSaveToExcel(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"Origin", "Dest"},
		{"JFK", "LAX"},
		{"JFK", "SFO"},
	}, dataframe.DetectTypes(false))
	require.NoError(t, df.Err)

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, SaveToExcel(df, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Origin", "Dest"}, rows[0])
	assert.Equal(t, "SFO", rows[2][1])
}
