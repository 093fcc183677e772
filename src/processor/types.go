package processor

// FlightRecord 样本表中的一行原始航班记录
// 钟面时间为HHMM整数编码(如800表示08:00)；缺失值用nil表示，不做零值填充
type FlightRecord struct {
	FlightDate   string   `json:"flight_date"`
	Airline      string   `json:"airline"`
	FlightNumber string   `json:"flight_number"`
	Origin       string   `json:"origin"`
	Dest         string   `json:"dest"`
	CRSDepTime   *int     `json:"crs_dep_time"` // 计划起飞钟面时间
	DepTime      *int     `json:"dep_time"`     // 实际起飞钟面时间
	CRSArrTime   *int     `json:"crs_arr_time"` // 计划到达钟面时间
	ArrTime      *int     `json:"arr_time"`     // 实际到达钟面时间
	ArrDelay     *float64 `json:"arr_delay"`    // 到达延误(分钟)，nil表示未知
	Cancelled    bool     `json:"cancelled"`
}

// Flight 归一化后的航班记录，附带各下游查询所需的派生列
type Flight struct {
	FlightRecord
	CRSDepMin *int `json:"crs_dep_min"` // 计划起飞：自零点起的分钟数
	DepMin    *int `json:"dep_min"`
	CRSArrMin *int `json:"crs_arr_min"`
	ArrMin    *int `json:"arr_min"`
	OnTime    bool `json:"on_time"`  // 到达延误不超过阈值；延误未知视为不正常
	DepHour   *int `json:"dep_hour"` // 计划起飞小时桶(0-23)
}

// Table 归一化后的航班表
// 加载完成后只读共享，查询方不得修改
type Table struct {
	Flights   []Flight
	Threshold float64 // 正常到达的延误阈值(分钟)
}

// MetricsResult 一次筛选的汇总指标
// n为0时三个比率字段均为nil，由展示层渲染为"-"
type MetricsResult struct {
	N          int      `json:"n"`
	OnTimePct  *float64 `json:"on_time_pct"`
	AvgDelay   *float64 `json:"avg_delay"`
	CancelRate *float64 `json:"cancel_rate"`
}

// HourlyStat 按计划起飞小时桶聚合的一行
type HourlyStat struct {
	Hour      int      `json:"dep_hour"`
	Flights   int      `json:"flights_n"`
	OnTimePct *float64 `json:"on_time_pct"`
	AvgDelay  *float64 `json:"avg_arr_delay"`
}

// Result 一次查询的完整输出：指标、小时聚合与命中的明细记录
type Result struct {
	Metrics MetricsResult `json:"metrics"`
	Hourly  []HourlyStat  `json:"hourly"`
	Flights []Flight      `json:"flights"`
}

// Selection 用户选定的筛选维度
// 四种模式各自携带所需参数；接口方法不可导出，变体集合封闭
type Selection interface {
	matches(f *Flight) bool
	// Describe 返回选择摘要，用于界面标题与日志
	Describe() string
}

// Airport 按出发机场筛选
type Airport struct {
	Origin string
}

// Route 按航线(出发-到达)筛选
type Route struct {
	Origin string
	Dest   string
}

// AirlineAtAirport 按某机场的某航司筛选
type AirlineAtAirport struct {
	Origin  string
	Airline string
}

// FlightNumber 按航司+航班号组合串筛选，形如"AA100"
// 前两位是航司二字码，其余为航班号
type FlightNumber struct {
	Flight string
}

func (s Airport) matches(f *Flight) bool {
	return f.Origin == s.Origin
}

func (s Airport) Describe() string {
	return "出发机场: " + s.Origin
}

func (s Route) matches(f *Flight) bool {
	return f.Origin == s.Origin && f.Dest == s.Dest
}

func (s Route) Describe() string {
	return "航线: " + s.Origin + " → " + s.Dest
}

func (s AirlineAtAirport) matches(f *Flight) bool {
	return f.Origin == s.Origin && f.Airline == s.Airline
}

func (s AirlineAtAirport) Describe() string {
	return "机场航司: " + s.Airline + " @ " + s.Origin
}

// Split 拆出航司二字码与航班号
// 组合串不足两位时航司取整串、航班号为空，该选择自然不命中任何记录
func (s FlightNumber) Split() (carrier, number string) {
	if len(s.Flight) < 2 {
		return s.Flight, ""
	}
	return s.Flight[:2], s.Flight[2:]
}

func (s FlightNumber) matches(f *Flight) bool {
	carrier, number := s.Split()
	return f.Airline == carrier && f.FlightNumber == number
}

func (s FlightNumber) Describe() string {
	return "航班: " + s.Flight
}
