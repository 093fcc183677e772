package processor

import (
	"sort"
)

// SelectorOptions 展示层筛选控件的候选项
type SelectorOptions struct {
	Airports  []string `json:"airports"`   // 出发与到达机场的并集
	Airlines  []string `json:"airlines"`   // 航司二字码
	FlightIDs []string `json:"flight_ids"` // 航司+航班号组合串
}

// Options 从归一化表提取去重排序后的筛选候选项
func Options(t *Table) SelectorOptions {
	airports := make(map[string]struct{})
	airlines := make(map[string]struct{})
	flightIDs := make(map[string]struct{})

	for i := range t.Flights {
		f := &t.Flights[i]
		if f.Origin != "" {
			airports[f.Origin] = struct{}{}
		}
		if f.Dest != "" {
			airports[f.Dest] = struct{}{}
		}
		if f.Airline != "" {
			airlines[f.Airline] = struct{}{}
			if f.FlightNumber != "" {
				flightIDs[f.Airline+f.FlightNumber] = struct{}{}
			}
		}
	}

	return SelectorOptions{
		Airports:  sortedKeys(airports),
		Airlines:  sortedKeys(airlines),
		FlightIDs: sortedKeys(flightIDs),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
