package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWriteAndSubscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := NewLogger(path)
	require.NoError(t, err)
	defer logger.Close()

	ch := logger.Subscribe()

	logger.Info("数据加载完成")
	logger.Error("数据加载失败")

	// 订阅通道应收到两条日志
	for i := 0; i < 2; i++ {
		select {
		case entry := <-ch:
			assert.Contains(t, entry, "数据加载")
		case <-time.After(time.Second):
			t.Fatal("未收到订阅日志")
		}
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "INFO: 数据加载完成")
	assert.Contains(t, content, "ERROR: 数据加载失败")
}

func TestLoggerRotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	logger, err := NewLogger(path)
	require.NoError(t, err)
	defer logger.Close()

	for i := 0; i < 50; i++ {
		logger.Info(strings.Repeat("x", 100))
	}

	// 上限设为1KB，触发轮转
	require.NoError(t, logger.CheckRotate("1024"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), 2, "轮转后应存在归档日志文件")

	// 轮转后新文件仍可写入
	logger.Info("轮转后写入")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "轮转后写入")
}

func TestEval(t *testing.T) {
	assert.Equal(t, int64(10*1024*1024), eval("10 * 1024 * 1024"))
	assert.Equal(t, int64(1024), eval("1024"))
	// 非法表达式回退到默认10MB
	assert.Equal(t, int64(10*1024*1024), eval("abc"))
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "FATAL", FATAL.String())
	assert.Equal(t, "UNKNOWN", LogLevel(99).String())
}
