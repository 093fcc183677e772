package datapush

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"FlightReliability/src/config"
	"FlightReliability/src/datasource/file"
	"FlightReliability/src/storage"
)

const reportSample = `FlightDate,Operating_Airline,Flight_Number_Operating_Airline,Origin,Dest,CRSDepTime,DepTime,CRSArrTime,ArrTime,ArrDelayMinutes,Cancelled
2024-01-01,AA,100,JFK,LAX,800,805,1100,1105,5,0
2024-01-01,AA,101,JFK,LAX,900,920,1200,1220,20,0
2024-01-01,DL,200,LAX,JFK,1000,1005,1800,1805,5,0
`

func testReporter(t *testing.T) *Reporter {
	t.Helper()
	dir := t.TempDir()

	samplePath := filepath.Join(dir, "flights.csv")
	require.NoError(t, os.WriteFile(samplePath, []byte(reportSample), 0644))

	cfg := &config.Config{}
	cfg.Data.Path = samplePath
	cfg.Report.OutputDir = filepath.Join(dir, "reports")
	// SendEmail留空，测试不触发邮件推送

	dcfg := &config.DataConfig{
		FlightData: map[string]string{
			"date":         "FlightDate",
			"airline":      "Operating_Airline",
			"flightNumber": "Flight_Number_Operating_Airline",
			"origin":       "Origin",
			"dest":         "Dest",
			"crsDepTime":   "CRSDepTime",
			"depTime":      "DepTime",
			"crsArrTime":   "CRSArrTime",
			"arrTime":      "ArrTime",
			"arrDelay":     "ArrDelayMinutes",
			"cancelled":    "Cancelled",
		},
		OnTimeThreshold: 15,
	}

	logger, err := storage.NewLogger(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })

	return NewReporter(cfg, file.NewStore(cfg, dcfg), logger)
}

func TestReporterRun(t *testing.T) {
	reporter := testReporter(t)

	path, err := reporter.Run()
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)

	// 标题行 + JFK + LAX两个出发机场
	require.Len(t, rows, 3)
	assert.Equal(t, "出发机场", rows[0][0])
	assert.Equal(t, "JFK", rows[1][0])
	assert.Equal(t, "2", rows[1][1])
	assert.Equal(t, "50.0", rows[1][2])
	assert.Equal(t, "LAX", rows[2][0])
}

func TestReporterMissingSample(t *testing.T) {
	reporter := testReporter(t)
	reporter.cfg.Data.Path = filepath.Join(t.TempDir(), "缺失.csv")

	_, err := reporter.Run()
	require.Error(t, err)
}
