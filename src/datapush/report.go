package datapush

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"

	"FlightReliability/src/config"
	"FlightReliability/src/datasource/email"
	"FlightReliability/src/datasource/file"
	"FlightReliability/src/processor"
	"FlightReliability/src/storage"
	"FlightReliability/src/utils"
)

// Reporter 生成按机场汇总的航班可靠性日报
// 输出xlsx文件，发件配置齐全时同时邮件推送
type Reporter struct {
	cfg    *config.Config
	store  *file.Store
	logger *storage.Logger
}

func NewReporter(cfg *config.Config, store *file.Store, logger *storage.Logger) *Reporter {
	return &Reporter{
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
}

// Run 生成当日报告，返回生成的文件路径
func (r *Reporter) Run() (string, error) {
	table, err := r.store.Load(r.cfg.Data.Path)
	if err != nil {
		return "", fmt.Errorf("加载样本数据失败: %w", err)
	}

	df := summaryFrame(table)

	outputDir := r.cfg.Report.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("创建报告目录失败: %w", err)
	}

	path := filepath.Join(outputDir,
		fmt.Sprintf("航班可靠性日报_%s.xlsx", time.Now().Format("2006-01-02")))
	if err := utils.SaveToExcel(df, path); err != nil {
		return "", fmt.Errorf("写入报告失败: %w", err)
	}
	r.logger.Info(fmt.Sprintf("日报已生成: %s", path))

	if r.cfg.SendEmail.Server != "" {
		body := fmt.Sprintf("附件为 %s 的航班可靠性日报，共覆盖 %d 个出发机场。",
			time.Now().Format("2006-01-02"), df.Nrow())
		if err := email.SendReport(r.cfg, body, path); err != nil {
			// 报告文件已生成，推送失败只记日志
			r.logger.Error(fmt.Sprintf("日报邮件推送失败: %v", err))
		} else {
			r.logger.Info("日报邮件已发送")
		}
	}

	return path, nil
}

// summaryFrame 每个出发机场一行的可靠性汇总表
func summaryFrame(table *processor.Table) dataframe.DataFrame {
	opts := processor.Options(table)

	records := [][]string{
		{"出发机场", "航班量", "正常率(%)", "平均到达延误(分钟)", "取消率(%)"},
	}
	for _, airport := range opts.Airports {
		res := processor.Query(table, processor.Airport{Origin: airport})
		m := res.Metrics
		if m.N == 0 {
			continue // 只作为到达机场出现，没有出港航班
		}
		records = append(records, []string{
			airport,
			strconv.Itoa(m.N),
			rateString(m.OnTimePct),
			rateString(m.AvgDelay),
			rateString(m.CancelRate),
		})
	}

	return dataframe.LoadRecords(records, dataframe.DetectTypes(false))
}

// rateString 比率输出为一位小数，样本为空时输出空串
func rateString(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}
