package webui

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"FlightReliability/src/config"
	"FlightReliability/src/datasource/file"
	"FlightReliability/src/processor"
	"FlightReliability/src/storage"
	"FlightReliability/src/utils"
)

// Server 航班可靠性看板的JSON接口
type Server struct {
	cfg    *config.Config
	store  *file.Store
	logger *storage.Logger
	engine *gin.Engine
}

// NewServer 创建接口服务并注册路由
func NewServer(cfg *config.Config, store *file.Store, logger *storage.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:    cfg,
		store:  store,
		logger: logger,
		engine: gin.New(),
	}
	s.engine.Use(gin.Recovery())

	api := s.engine.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.GET("/options", s.handleOptions)
	api.GET("/stats", s.handleStats)
	api.GET("/export", s.handleExport)

	s.engine.GET("/logs", s.handleLogs)
	return s
}

// Run 启动HTTP服务，阻塞直到出错
func (s *Server) Run() error {
	s.logger.Info(fmt.Sprintf("接口服务启动: %s", s.cfg.Server.Addr))
	return s.engine.Run(s.cfg.Server.Addr)
}

// Engine 暴露底层引擎，测试用
func (s *Server) Engine() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleOptions 返回筛选控件需要的去重候选集
func (s *Server) handleOptions(c *gin.Context) {
	table, ok := s.loadTable(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, processor.Options(table))
}

// handleStats 按筛选模式返回指标、小时聚合和航班明细
func (s *Server) handleStats(c *gin.Context) {
	sel, err := parseSelection(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	table, ok := s.loadTable(c)
	if !ok {
		return
	}

	res := processor.Query(table, sel)
	c.JSON(http.StatusOK, gin.H{
		"selection": sel.Describe(),
		"metrics":   res.Metrics,
		"hourly":    res.Hourly,
		"flights":   res.Flights,
	})
}

// handleExport 导出筛选结果为xlsx
func (s *Server) handleExport(c *gin.Context) {
	sel, err := parseSelection(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	table, ok := s.loadTable(c)
	if !ok {
		return
	}

	res := processor.Query(table, sel)
	df := processor.GridFrame(res.Flights)

	tmp := filepath.Join(os.TempDir(),
		fmt.Sprintf("flights_export_%d.xlsx", time.Now().UnixNano()))
	if err := utils.SaveToExcel(df, tmp); err != nil {
		s.logger.Error(fmt.Sprintf("导出失败: %v", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "导出失败"})
		return
	}
	defer os.Remove(tmp)

	c.FileAttachment(tmp, "flights.xlsx")
}

// handleLogs 以SSE推送运行日志
func (s *Server) handleLogs(c *gin.Context) {
	ch := s.logger.Subscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case line, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("log", line)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (s *Server) loadTable(c *gin.Context) (*processor.Table, bool) {
	table, err := s.store.Load(s.cfg.Data.Path)
	if err != nil {
		s.logger.Error(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "样本数据加载失败"})
		return nil, false
	}
	return table, true
}

// parseSelection 校验查询参数并构造筛选模式
// 模式名未知或必需参数缺失都是调用方错误，返回error交给上层转400
func parseSelection(c *gin.Context) (processor.Selection, error) {
	mode := c.Query("mode")
	switch mode {
	case "airport":
		origin := c.Query("origin")
		if origin == "" {
			return nil, fmt.Errorf("airport模式缺少origin参数")
		}
		return processor.Airport{Origin: origin}, nil
	case "route":
		origin, dest := c.Query("origin"), c.Query("dest")
		if origin == "" || dest == "" {
			return nil, fmt.Errorf("route模式缺少origin或dest参数")
		}
		return processor.Route{Origin: origin, Dest: dest}, nil
	case "airline_at_airport":
		origin, airline := c.Query("origin"), c.Query("airline")
		if origin == "" || airline == "" {
			return nil, fmt.Errorf("airline_at_airport模式缺少origin或airline参数")
		}
		return processor.AirlineAtAirport{Origin: origin, Airline: airline}, nil
	case "flight":
		flight := c.Query("flight")
		if flight == "" {
			return nil, fmt.Errorf("flight模式缺少flight参数")
		}
		return processor.FlightNumber{Flight: flight}, nil
	case "":
		return nil, fmt.Errorf("缺少mode参数")
	default:
		return nil, fmt.Errorf("未知的筛选模式: %s", mode)
	}
}
