package processor

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
)

// 明细表格展示/导出用的列标题，与样本原始列名保持一致
var gridHeader = []string{
	"FlightDate", "Operating_Airline", "Flight_Number_Operating_Airline",
	"Origin", "Dest", "CRSDepTime", "DepTime", "CRSArrTime", "ArrTime",
	"ArrDelayMinutes", "Cancelled",
}

// GridFrame 将命中的明细记录转回DataFrame，供表格展示与Excel导出
// 按日期、航司、航班号排序；缺失值输出为空串
func GridFrame(flights []Flight) dataframe.DataFrame {
	sorted := make([]Flight, len(flights))
	copy(sorted, flights)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].FlightDate != sorted[j].FlightDate {
			return sorted[i].FlightDate < sorted[j].FlightDate
		}
		if sorted[i].Airline != sorted[j].Airline {
			return sorted[i].Airline < sorted[j].Airline
		}
		return sorted[i].FlightNumber < sorted[j].FlightNumber
	})

	records := make([][]string, 0, len(sorted)+1)
	records = append(records, gridHeader)
	for i := range sorted {
		f := &sorted[i]
		records = append(records, []string{
			f.FlightDate, f.Airline, f.FlightNumber,
			f.Origin, f.Dest,
			clockString(f.CRSDepTime), clockString(f.DepTime),
			clockString(f.CRSArrTime), clockString(f.ArrTime),
			delayString(f.ArrDelay), flagString(f.Cancelled),
		})
	}

	return dataframe.LoadRecords(records, dataframe.DetectTypes(false))
}

func clockString(clock *int) string {
	if clock == nil {
		return ""
	}
	return fmt.Sprintf("%04d", *clock)
}

func delayString(delay *float64) string {
	if delay == nil {
		return ""
	}
	return strconv.FormatFloat(*delay, 'f', -1, 64)
}

func flagString(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
