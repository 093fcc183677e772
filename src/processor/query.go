package processor

import (
	"sort"

	"FlightReliability/src/utils"
)

// Query 对归一化表应用筛选并计算指标与小时聚合
// 纯函数：不修改表，相同输入得到相同输出；筛选结果为空不是错误
func Query(t *Table, sel Selection) Result {
	if t == nil {
		panic("processor: 查询的数据表不能为空")
	}
	if sel == nil {
		// 未指定筛选模式属于编程错误，不能退化为"不过滤"
		panic("processor: 未指定筛选模式")
	}

	var filtered []Flight
	for i := range t.Flights {
		if sel.matches(&t.Flights[i]) {
			filtered = append(filtered, t.Flights[i])
		}
	}

	return Result{
		Metrics: computeMetrics(filtered),
		Hourly:  computeHourly(filtered),
		Flights: filtered,
	}
}

func computeMetrics(flights []Flight) MetricsResult {
	n := len(flights)
	if n == 0 {
		return MetricsResult{N: 0}
	}

	var onTime, cancelled int
	var delaySum float64
	var delayCount int
	for i := range flights {
		if flights[i].OnTime {
			onTime++
		}
		if flights[i].Cancelled {
			cancelled++
		}
		if d := flights[i].ArrDelay; d != nil {
			delaySum += *d
			delayCount++
		}
	}

	m := MetricsResult{
		N:          n,
		OnTimePct:  pct(onTime, n),
		CancelRate: pct(cancelled, n),
	}
	// 延误均值只统计有延误数据的记录，缺失不当作0
	if delayCount > 0 {
		avg := utils.Round1(delaySum / float64(delayCount))
		m.AvgDelay = &avg
	}
	return m
}

// computeHourly 按计划起飞小时桶分组聚合，桶升序输出
// 计划起飞时间缺失的记录没有小时桶，不进入聚合
func computeHourly(flights []Flight) []HourlyStat {
	type bucket struct {
		n          int
		onTime     int
		delaySum   float64
		delayCount int
	}

	buckets := make(map[int]*bucket)
	for i := range flights {
		if flights[i].DepHour == nil {
			continue
		}
		h := *flights[i].DepHour
		b := buckets[h]
		if b == nil {
			b = &bucket{}
			buckets[h] = b
		}
		b.n++
		if flights[i].OnTime {
			b.onTime++
		}
		if d := flights[i].ArrDelay; d != nil {
			b.delaySum += *d
			b.delayCount++
		}
	}

	hours := make([]int, 0, len(buckets))
	for h := range buckets {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	stats := make([]HourlyStat, 0, len(hours))
	for _, h := range hours {
		b := buckets[h]
		st := HourlyStat{
			Hour:      h,
			Flights:   b.n,
			OnTimePct: pct(b.onTime, b.n),
		}
		if b.delayCount > 0 {
			avg := utils.Round1(b.delaySum / float64(b.delayCount))
			st.AvgDelay = &avg
		}
		stats = append(stats, st)
	}
	return stats
}

func pct(count, total int) *float64 {
	if total == 0 {
		return nil
	}
	v := utils.Round1(float64(count) / float64(total) * 100)
	return &v
}
