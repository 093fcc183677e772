package email

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// SampleAttachmentHandler 保存邮件里的航班样本附件
// 只认CSV和xlsx，按UID去重，落盘后回调通知(用于让缓存失效)
type SampleAttachmentHandler struct {
	TargetSubject string
	DataDir       string
	OnSaved       func(path string) // 附件落盘后的回调，可为nil

	processedUIDs map[uint32]bool
	mu            sync.RWMutex
}

func NewSampleAttachmentHandler(subject, dataDir string) *SampleAttachmentHandler {
	return &SampleAttachmentHandler{
		TargetSubject: subject,
		DataDir:       dataDir,
		processedUIDs: make(map[uint32]bool),
	}
}

func (h *SampleAttachmentHandler) isProcessed(uid uint32) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.processedUIDs[uid]
}

func (h *SampleAttachmentHandler) markAsProcessed(uid uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.processedUIDs[uid] = true
}

// Handle 处理单封邮件：主题匹配时把样本附件保存到数据目录
func (h *SampleAttachmentHandler) Handle(email *Email) error {
	if h.isProcessed(email.UID) {
		return nil
	}

	if !strings.Contains(email.Subject, h.TargetSubject) {
		return nil
	}

	if err := os.MkdirAll(h.DataDir, 0755); err != nil {
		return fmt.Errorf("创建数据目录失败: %w", err)
	}

	saved := false
	for _, attachment := range email.Attachments {
		if !isSampleFile(attachment.Filename) {
			continue
		}

		filePath := filepath.Join(h.DataDir, filepath.Base(attachment.Filename))
		if err := os.WriteFile(filePath, attachment.Content, 0644); err != nil {
			return fmt.Errorf("保存附件 %s 失败: %w", attachment.Filename, err)
		}
		saved = true

		if h.OnSaved != nil {
			h.OnSaved(filePath)
		}
	}

	if saved {
		h.markAsProcessed(email.UID)
	}
	return nil
}

func isSampleFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}
