package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron"

	"FlightReliability/src/config"
	"FlightReliability/src/datapush"
	"FlightReliability/src/datasource/email"
	"FlightReliability/src/datasource/file"
	"FlightReliability/src/storage"
	"FlightReliability/src/webui"
)

func main() {
	// 实况接口凭据等敏感项走.env，没有该文件不算错
	godotenv.Load()

	cfg, dcfg, err := config.LoadConfig("./config", "config.json", "dataconfig.json")
	if err != nil {
		log.Fatal("加载配置失败: ", err)
	}

	logName := cfg.LogName
	if logName == "" {
		logName = "app.log"
	}
	logger, err := storage.NewLogger(logName)
	if err != nil {
		log.Fatal("初始化日志失败: ", err)
	}
	defer logger.Close()

	store := file.NewStore(cfg, dcfg)

	// 预热：启动即加载样本，问题早暴露
	if _, err := store.Load(cfg.Data.Path); err != nil {
		logger.Error(err.Error())
	} else {
		logger.Info(fmt.Sprintf("样本数据已加载: %s", cfg.Data.Path))
	}

	if cfg.Data.Watch {
		go watchDataDir(cfg, store, logger)
	}

	c := cron.New()

	if cfg.Email.Server != "" {
		if err := scheduleEmailCheck(c, cfg, store, logger); err != nil {
			logger.Error("创建邮件巡检任务失败: " + err.Error())
		}
	}

	if reload := time.Duration(cfg.Data.Reload); reload > 0 {
		if err := c.AddFunc(fmt.Sprintf("@every %s", reload), func() {
			store.Invalidate(cfg.Data.Path)
			if _, err := store.Load(cfg.Data.Path); err != nil {
				logger.Error("定时重载样本失败: " + err.Error())
			}
		}); err != nil {
			logger.Error("创建定时重载任务失败: " + err.Error())
		}
	}

	// 日志轮转走低频巡检
	if err := c.AddFunc("@hourly", func() {
		if err := logger.CheckRotate(cfg.LogMaxSize); err != nil {
			logger.Error("日志轮转失败: " + err.Error())
		}
	}); err != nil {
		logger.Error("创建日志轮转任务失败: " + err.Error())
	}

	if cfg.Report.Enabled {
		reporter := datapush.NewReporter(cfg, store, logger)
		schedule := cfg.Report.Schedule
		if schedule == "" {
			schedule = "@daily"
		}
		if err := c.AddFunc(schedule, func() {
			if _, err := reporter.Run(); err != nil {
				logger.Error("生成日报失败: " + err.Error())
			}
		}); err != nil {
			logger.Error("创建日报任务失败: " + err.Error())
		}
	}

	c.Start()
	defer c.Stop()

	server := webui.NewServer(cfg, store, logger)
	go func() {
		if err := server.Run(); err != nil {
			logger.Fatal("接口服务退出: " + err.Error())
		}
	}()

	waitForShutdown(logger)
}

func waitForShutdown(logger *storage.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("收到信号: " + sig.String() + "，正在退出...")
	logger.Close()
}

// watchDataDir 监控数据目录，样本更新时让缓存失效
func watchDataDir(cfg *config.Config, store *file.Store, logger *storage.Logger) {
	// Path指向具体文件，监控其所在目录
	dir := filepath.Dir(cfg.Data.Path)

	monitor, err := file.NewFileMonitor(dir)
	if err != nil {
		logger.Error("启动文件监控失败: " + err.Error())
		return
	}
	defer monitor.Close()

	logger.Info(fmt.Sprintf("文件监控已启动: %s", dir))
	err = monitor.Watch(func(path string) {
		store.Invalidate(path)
		logger.Info(fmt.Sprintf("检测到样本更新，缓存已失效: %s", path))
	})
	if err != nil {
		logger.Error("文件监控退出: " + err.Error())
	}
}

// scheduleEmailCheck 周期性拉取邮箱中的新样本附件
func scheduleEmailCheck(c *cron.Cron, cfg *config.Config, store *file.Store, logger *storage.Logger) error {
	emailClient := email.NewEmailClient(
		cfg.Email.Server,
		cfg.Email.Username,
		cfg.Email.Password)

	handler := email.NewSampleAttachmentHandler(cfg.Email.TargetSubject, filepath.Dir(cfg.Data.Path))
	handler.OnSaved = func(path string) {
		store.Invalidate(path)
		logger.Info(fmt.Sprintf("邮件样本已保存，缓存已失效: %s", path))
	}

	interval := time.Duration(cfg.Email.CheckInterval)
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	cronSpec := fmt.Sprintf("@every %s", interval)

	return c.AddFunc(cronSpec, func() {
		newEmail, err := email.CheckAndProcessEmails(emailClient, cfg.Email.TargetSubject, logger)
		if err != nil {
			logger.Error("检查邮件失败: " + err.Error())
			return
		}
		if newEmail == nil {
			return
		}
		if err := handler.Handle(newEmail); err != nil {
			logger.Error(fmt.Sprintf("处理邮件失败(UID:%d): %v", newEmail.UID, err))
		}
	})
}
