package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config 结构体定义了应用程序的配置结构
type Config struct {
	Server struct {
		Addr string `json:"addr"` // HTTP服务监听地址
	} `json:"server"`

	Data struct {
		Path      string   `json:"path"`       // 航班样本数据文件路径
		SheetName string   `json:"sheet_name"` // xlsx样本的工作表名
		Encoding  string   `json:"encoding"`   // 文件编码(utf-8/gbk)
		Watch     bool     `json:"watch"`      // 是否监控数据目录变化
		Reload    Duration `json:"reload"`     // 定时检查新数据的间隔
	} `json:"data"`

	Email struct {
		Server        string   `json:"server"`         // IMAP服务器地址
		Username      string   `json:"username"`       // 邮箱用户名
		Password      string   `json:"password"`       // 邮箱密码/授权码
		TargetSubject string   `json:"target_subject"` // 需要匹配的邮件主题
		CheckInterval Duration `json:"check_interval"` // 检查新邮件的间隔时间
	} `json:"email"`

	SendEmail struct {
		Server   string   `json:"server"`   // SMTP服务器地址
		Username string   `json:"username"` // 发件邮箱
		Password string   `json:"password"` // 发件密码/授权码
		To       []string `json:"to"`       // 报告收件人
		Subject  string   `json:"subject"`  // 报告邮件主题
	} `json:"send_email"`

	Report struct {
		Enabled   bool   `json:"enabled"`    // 是否启用日报
		Schedule  string `json:"schedule"`   // cron表达式，如 "@daily"
		OutputDir string `json:"output_dir"` // 报告输出目录
	} `json:"report"`

	LogName    string `json:"log_name"`
	LogMaxSize string `json:"log_max_size"`
}

// DataConfig 数据列配置：逻辑列名到样本文件物理列名的映射
type DataConfig struct {
	FlightData      map[string]string `json:"flightData"`      // 逻辑列名 -> 物理列名
	OnTimeThreshold float64           `json:"onTimeThreshold"` // 正常到达的延误阈值(分钟)
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	mu                 sync.RWMutex
)

// LoadConfig 加载配置文件(进程内只加载一次)
func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	if err == nil && (instance == nil || dataConfigInstance == nil) {
		return nil, nil, fmt.Errorf("部分配置未加载成功")
	}
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configData, err := readFile(filepath.Join(jsonFolder, jsonFile))
	if err != nil {
		return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	dataConfigData, err := readFile(filepath.Join(jsonFolder, dataJsonFile))
	if err != nil {
		return nil, nil, fmt.Errorf("读取数据配置文件失败: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(configData, &cfg); err != nil {
		return nil, nil, fmt.Errorf("解析Config失败: %w", err)
	}

	var dcfg DataConfig
	if err := json.Unmarshal(dataConfigData, &dcfg); err != nil {
		return nil, nil, fmt.Errorf("解析DataConfig失败: %w", err)
	}

	if dcfg.OnTimeThreshold <= 0 {
		dcfg.OnTimeThreshold = 15 // 行业口径：到达延误15分钟以内为正常
	}

	return &cfg, &dcfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

// Duration 是time.Duration的自定义包装类型
// 用于支持JSON序列化和反序列化
type Duration time.Duration

// UnmarshalJSON 实现json.Unmarshaler接口
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON 实现json.Marshaler接口
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// GetFlightData 获取逻辑列对应的物理列名；未配置时沿用逻辑列名
func (dc *DataConfig) GetFlightData(colName string) string {
	mu.RLock()
	defer mu.RUnlock()
	if v, ok := dc.FlightData[colName]; ok {
		return v
	}
	return colName
}

// SetFlightData 更新逻辑列映射
func (dc *DataConfig) SetFlightData(colName, value string) {
	mu.Lock()
	defer mu.Unlock()
	dc.FlightData[colName] = value
}
