package file

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"FlightReliability/src/config"
	"FlightReliability/src/processor"
)

const sampleCSV = `FlightDate,Operating_Airline,Flight_Number_Operating_Airline,Origin,Dest,CRSDepTime,DepTime,CRSArrTime,ArrTime,ArrDelayMinutes,Cancelled
2024-01-01,AA,100,JFK,LAX,800,805,1100,1105,5,0
2024-01-01,AA,101,JFK,LAX,900,920,1200,1220,20,0
2024-01-01,DL,200,JFK,SFO,1000,,1300,,,1
`

func testStore(t *testing.T) *Store {
	t.Helper()
	cfg := &config.Config{}
	cfg.Data.SheetName = "航班数据"
	cfg.Data.Encoding = "utf-8"

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
	return NewStore(cfg, dcfg)
}

func writeSample(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestStoreLoadCSV(t *testing.T) {
	store := testStore(t)
	path := writeSample(t, "flights.csv", sampleCSV)

	table, err := store.Load(path)
	require.NoError(t, err)
	require.Len(t, table.Flights, 3)

	assert.Equal(t, "AA", table.Flights[0].Airline)
	assert.True(t, table.Flights[2].Cancelled)
	assert.Nil(t, table.Flights[2].ArrDelay)
}

// 同一路径重复加载必须命中缓存，不重新读取文件
func TestStoreMemoization(t *testing.T) {
	store := testStore(t)
	path := writeSample(t, "flights.csv", sampleCSV)

	first, err := store.Load(path)
	require.NoError(t, err)

	// 即使文件被删掉，缓存仍然有效
	require.NoError(t, os.Remove(path))
	second, err := store.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestStoreInvalidate(t *testing.T) {
	store := testStore(t)
	path := writeSample(t, "flights.csv", sampleCSV)

	first, err := store.Load(path)
	require.NoError(t, err)

	store.Invalidate(path)
	second, err := store.Load(path)
	require.NoError(t, err)
	assert.NotSame(t, first, second, "失效后应重新读取")
}

func TestStoreLoadMissingColumn(t *testing.T) {
	store := testStore(t)
	path := writeSample(t, "flights.csv", "Origin,Dest\nJFK,LAX\n")

	_, err := store.Load(path)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, path, loadErr.Path)
	assert.Contains(t, loadErr.Error(), "缺少必需列")
}

func TestStoreLoadUnreadable(t *testing.T) {
	store := testStore(t)

	_, err := store.Load(filepath.Join(t.TempDir(), "不存在.csv"))
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
}

func TestStoreLoadXLSX(t *testing.T) {
	store := testStore(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "flights.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("航班数据")
	require.NoError(t, err)

	rows := [][]string{
		{"FlightDate", "Operating_Airline", "Flight_Number_Operating_Airline",
			"Origin", "Dest", "CRSDepTime", "DepTime", "CRSArrTime", "ArrTime",
			"ArrDelayMinutes", "Cancelled"},
		{"2024-01-01", "AA", "100", "JFK", "LAX", "1515", "1520", "1830", "1840", "10", "0"},
	}
	for _, r := range rows {
		row := sheet.AddRow()
		for _, v := range r {
			row.AddCell().Value = v
		}
	}
	require.NoError(t, f.Save(path))

	table, err := store.Load(path)
	require.NoError(t, err)
	require.Len(t, table.Flights, 1)
	require.NotNil(t, table.Flights[0].CRSDepMin)
	assert.Equal(t, 975, *table.Flights[0].CRSDepMin)
	assert.True(t, table.Flights[0].OnTime)
}

// GBK编码的样本(国内系统导出)应能正确转码加载
func TestReadCSVGBK(t *testing.T) {
	csv := "FlightDate,Operating_Airline,Flight_Number_Operating_Airline,Origin,Dest,CRSDepTime,DepTime,CRSArrTime,ArrTime,ArrDelayMinutes,Cancelled\n" +
		"2024年1月1日,AA,100,JFK,LAX,800,805,1100,1105,5,0\n"
	encoded, _, err := transform.Bytes(simplifiedchinese.GBK.NewEncoder(), []byte(csv))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "flights.csv")
	require.NoError(t, os.WriteFile(path, encoded, 0644))

	df, err := ReadTable(path, "", "gbk")
	require.NoError(t, err)
	records := df.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "2024年1月1日", records[1][0])
}

func TestMonitorDetectsWrite(t *testing.T) {
	dir := t.TempDir()
	monitor, err := NewFileMonitor(dir)
	require.NoError(t, err)
	defer monitor.Close()

	changed := make(chan string, 1)
	go monitor.Watch(func(path string) {
		select {
		case changed <- path:
		default:
		}
	})

	path := filepath.Join(dir, "flights.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	select {
	case got := <-changed:
		assert.Equal(t, path, got)
	case <-time.After(3 * time.Second):
		t.Fatal("未检测到文件写入")
	}
}

// Store与processor的组合冒烟：加载后直接查询
func TestStoreQuerySmoke(t *testing.T) {
	store := testStore(t)
	path := writeSample(t, "flights.csv", sampleCSV)

	table, err := store.Load(path)
	require.NoError(t, err)

	res := processor.Query(table, processor.Airport{Origin: "JFK"})
	assert.Equal(t, 3, res.Metrics.N)
}
