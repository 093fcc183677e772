package file

import (
	"sync"

	"FlightReliability/src/config"
	"FlightReliability/src/processor"
)

// Store 按路径缓存归一化后的航班表
// 样本数据在进程生命周期内视为静态，同一路径只读取解析一次；
// 缓存失效是调用方的事(见Monitor)，通过Invalidate显式触发
type Store struct {
	dcfg      *config.DataConfig
	sheetName string
	encoding  string

	mu     sync.RWMutex
	tables map[string]*processor.Table
}

// NewStore 创建航班表缓存
func NewStore(cfg *config.Config, dcfg *config.DataConfig) *Store {
	return &Store{
		dcfg:      dcfg,
		sheetName: cfg.Data.SheetName,
		encoding:  cfg.Data.Encoding,
		tables:    make(map[string]*processor.Table),
	}
}

// Load 加载指定路径的航班表，命中缓存时直接返回
// 失败返回*LoadError，不产出部分表，也不缓存失败结果
func (s *Store) Load(path string) (*processor.Table, error) {
	s.mu.RLock()
	table, ok := s.tables[path]
	s.mu.RUnlock()
	if ok {
		return table, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 双重检查：等锁期间可能已有并发加载完成
	if table, ok := s.tables[path]; ok {
		return table, nil
	}

	df, err := ReadTable(path, s.sheetName, s.encoding)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	table, err = processor.Normalize(df, s.dcfg)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	s.tables[path] = table
	return table, nil
}

// Invalidate 丢弃指定路径的缓存表，下次Load时重新读取
func (s *Store) Invalidate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, path)
}
