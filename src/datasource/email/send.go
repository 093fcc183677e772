package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/jordan-wright/email"

	"FlightReliability/src/config"
)

// SendReport 把生成的日报通过SMTP发给配置的收件人
// 附件路径为空时只发正文
func SendReport(c *config.Config, body string, attachmentPath string) error {
	from := c.SendEmail.Username
	if from == "" || len(c.SendEmail.To) == 0 {
		return fmt.Errorf("发件配置不完整")
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("航班可靠性日报 <%s>", from)
	e.To = c.SendEmail.To
	e.Subject = c.SendEmail.Subject
	e.Text = []byte(body)

	if attachmentPath != "" {
		if _, err := os.Stat(attachmentPath); err != nil {
			return fmt.Errorf("报告附件不存在: %w", err)
		}
		if _, err := e.AttachFile(attachmentPath); err != nil {
			return fmt.Errorf("添加报告附件失败: %w", err)
		}
	}

	// 服务器地址缺端口时补默认SSL端口
	smtpAddr := c.SendEmail.Server
	if !strings.Contains(smtpAddr, ":") {
		smtpAddr += ":465"
	}
	host := strings.Split(smtpAddr, ":")[0]

	err := e.SendWithTLS(
		smtpAddr,
		smtp.PlainAuth("", from, c.SendEmail.Password, host),
		&tls.Config{ServerName: host},
	)
	if err != nil {
		return fmt.Errorf("发送报告邮件失败: %w", err)
	}
	return nil
}
