package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/mail"
	"time"

	"github.com/emersion/go-sasl"
	gosmtp "github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"bcsweb/backend/internal/config"
	"bcsweb/backend/internal/domain"
)

// Mailer 负责根据提交内容生成通知邮件并通过 SMTP 中继发送。
//
// Mailer 无状态，每次发送建立一条新连接；连接参数来自启动时注入的配置，
// 不接受任何用户输入。
type Mailer struct {
	cfg     config.SMTPConfig
	baseURL string // 简历下载链接的站点基础 URL
	logger  *zap.Logger

	// send 完成底层投递，测试中可替换
	send func(from string, to []string, raw []byte) error
}

// NewMailer 创建邮件通知器
func NewMailer(cfg config.SMTPConfig, baseURL string, logger *zap.Logger) *Mailer {
	m := &Mailer{
		cfg:     cfg,
		baseURL: baseURL,
		logger:  logger,
	}
	m.send = m.sendSMTP
	return m
}

// NotifyContact 发送联系表单通知。
// 发件人显示名使用提交人姓名，Reply-To 指向提交人邮箱。
func (m *Mailer) NotifyContact(ctx context.Context, sub *domain.Submission) error {
	body, err := renderContactBody(sub)
	if err != nil {
		return fmt.Errorf("render contact body: %w", err)
	}

	msg := &message{
		from:    (&mail.Address{Name: sub.Name, Address: m.cfg.User}).String(),
		to:      m.cfg.To,
		replyTo: sub.Email,
		subject: fmt.Sprintf("📩 Contact from %s", sub.Name),
		html:    body,
	}

	return m.submit(ctx, msg)
}

// NotifyApplication 发送职位申请通知。
// 正文包含落盘简历的下载链接，同时把简历字节作为附件直接随信发送。
func (m *Mailer) NotifyApplication(ctx context.Context, sub *domain.Submission, stored *domain.StoredAttachment) error {
	resumeURL := m.baseURL + stored.PublicPath

	body, err := renderApplicationBody(sub, resumeURL)
	if err != nil {
		return fmt.Errorf("render application body: %w", err)
	}

	from := m.cfg.From
	if from == "" {
		from = (&mail.Address{Name: "Career Form", Address: m.cfg.User}).String()
	}

	msg := &message{
		from:       from,
		to:         m.cfg.To,
		subject:    fmt.Sprintf("📄 New Career Application: %s", sub.Position),
		html:       body,
		attachment: sub.Resume,
	}

	return m.submit(ctx, msg)
}

// submit 编码并发送邮件，发送时间受配置的超时约束。
func (m *Mailer) submit(ctx context.Context, msg *message) error {
	raw, err := msg.bytes()
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	timeout := m.cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// sendSMTP 自身带连接级截止时间，这个协程不会因中继卡死而滞留
	done := make(chan error, 1)
	go func() {
		done <- m.send(m.cfg.User, []string{msg.to}, raw)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		m.logger.Debug("notification email sent",
			zap.String("to", msg.to),
			zap.String("subject", msg.subject),
		)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send timed out after %s: %w", timeout, ctx.Err())
	}
}

// sendSMTP 通过配置的 SMTP 中继投递一封已编码的邮件。
// 端口 465 使用隐式 TLS，其余端口走 STARTTLS。
// 连接带截止时间，中继无响应时发送在超时上限内返回错误。
func (m *Mailer) sendSMTP(from string, to []string, raw []byte) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	timeout := m.cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp relay: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		conn.Close()
		return fmt.Errorf("set smtp deadline: %w", err)
	}

	tlsConfig := &tls.Config{ServerName: m.cfg.Host}
	if m.cfg.Port == 465 {
		conn = tls.Client(conn, tlsConfig)
	}

	c := gosmtp.NewClient(conn)
	defer c.Close()

	if m.cfg.Port != 465 {
		if err := c.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	auth := sasl.NewPlainClient("", m.cfg.User, m.cfg.Pass)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := c.SendMail(from, to, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("smtp delivery: %w", err)
	}

	return c.Quit()
}
