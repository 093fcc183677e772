package processor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"FlightReliability/src/config"
)

// 逻辑列名，物理列名通过DataConfig映射
const (
	ColFlightDate   = "date"
	ColAirline      = "airline"
	ColFlightNumber = "flightNumber"
	ColOrigin       = "origin"
	ColDest         = "dest"
	ColCRSDepTime   = "crsDepTime"
	ColDepTime      = "depTime"
	ColCRSArrTime   = "crsArrTime"
	ColArrTime      = "arrTime"
	ColArrDelay     = "arrDelay"
	ColCancelled    = "cancelled"
)

// RequiredColumns 样本表必须具备的逻辑列
// ColFlightDate仅用于明细展示，允许缺失
func RequiredColumns() []string {
	return []string{
		ColAirline, ColFlightNumber, ColOrigin, ColDest,
		ColCRSDepTime, ColDepTime, ColCRSArrTime, ColArrTime,
		ColArrDelay, ColCancelled,
	}
}

// Normalize 将原始表逐行归一化为Flight表
// 纯函数：每行输入恰好产出一行，保持原始顺序；格式异常的值记为缺失而非0
func Normalize(df dataframe.DataFrame, dcfg *config.DataConfig) (*Table, error) {
	records := df.Records()
	if len(records) == 0 {
		return nil, fmt.Errorf("数据表为空，缺少标题行")
	}

	header := records[0]
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}

	col := func(logical string) (int, bool) {
		i, ok := idx[dcfg.GetFlightData(logical)]
		return i, ok
	}

	for _, logical := range RequiredColumns() {
		if _, ok := col(logical); !ok {
			return nil, fmt.Errorf("缺少必需列 %s(%s)", logical, dcfg.GetFlightData(logical))
		}
	}

	threshold := dcfg.OnTimeThreshold

	field := func(row []string, logical string) string {
		i, ok := col(logical)
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	flights := make([]Flight, 0, len(records)-1)
	for _, row := range records[1:] {
		rec := FlightRecord{
			FlightDate:   field(row, ColFlightDate),
			Airline:      field(row, ColAirline),
			FlightNumber: canonicalNumber(field(row, ColFlightNumber)),
			Origin:       field(row, ColOrigin),
			Dest:         field(row, ColDest),
			CRSDepTime:   parseClock(field(row, ColCRSDepTime)),
			DepTime:      parseClock(field(row, ColDepTime)),
			CRSArrTime:   parseClock(field(row, ColCRSArrTime)),
			ArrTime:      parseClock(field(row, ColArrTime)),
			ArrDelay:     parseDelay(field(row, ColArrDelay)),
			Cancelled:    parseFlag(field(row, ColCancelled)),
		}

		f := Flight{
			FlightRecord: rec,
			CRSDepMin:    clockToMinutes(rec.CRSDepTime),
			DepMin:       clockToMinutes(rec.DepTime),
			CRSArrMin:    clockToMinutes(rec.CRSArrTime),
			ArrMin:       clockToMinutes(rec.ArrTime),
			OnTime:       rec.ArrDelay != nil && *rec.ArrDelay <= threshold,
		}
		if f.CRSDepMin != nil {
			hour := *f.CRSDepMin / 60
			f.DepHour = &hour
		}

		flights = append(flights, f)
	}

	return &Table{Flights: flights, Threshold: threshold}, nil
}

// clockToMinutes HHMM钟面时间转为自零点起的分钟数，缺失原样传递
func clockToMinutes(clock *int) *int {
	if clock == nil {
		return nil
	}
	m := (*clock/100)*60 + *clock%100
	return &m
}

func isMissing(s string) bool {
	switch strings.ToUpper(s) {
	case "", "NA", "NAN", "NULL":
		return true
	}
	return false
}

// parseClock 宽松解析HHMM钟面时间
// xlsx来源可能带小数部分("800.0")，按整数截取
func parseClock(s string) *int {
	if isMissing(s) {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	clock := int(v)
	return &clock
}

func parseDelay(s string) *float64 {
	if isMissing(s) {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseFlag 解析取消标记，兼容0/1与true/false两种写法
func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "true", "t", "yes":
		return true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return v != 0
}

// canonicalNumber 规整航班号文本
// 数值列经过表格软件后可能变成"100.0"，统一去掉小数尾巴
func canonicalNumber(s string) string {
	if i := strings.Index(s, "."); i >= 0 {
		if v, err := strconv.ParseFloat(s, 64); err == nil && v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
	}
	return s
}
