package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bcsweb/backend/internal/config"
	"bcsweb/backend/internal/domain"
)

// capturedMail 记录一次被拦截的投递
type capturedMail struct {
	from string
	to   []string
	raw  []byte
}

// newTestMailer 创建投递被拦截的 Mailer
func newTestMailer(t *testing.T) (*Mailer, *[]capturedMail) {
	t.Helper()

	m := NewMailer(config.SMTPConfig{
		Host:    "smtp.example.com",
		Port:    587,
		User:    "ops@example.com",
		Pass:    "secret",
		To:      "ops@example.com",
		Timeout: 5 * time.Second,
	}, "https://www.example.com", zap.NewNop())

	var sent []capturedMail
	m.send = func(from string, to []string, raw []byte) error {
		sent = append(sent, capturedMail{from: from, to: to, raw: raw})
		return nil
	}

	return m, &sent
}

// decodeSubject 解码 RFC 2047 编码的主题
func decodeSubject(t *testing.T, raw string) string {
	t.Helper()
	decoded, err := new(mime.WordDecoder).DecodeHeader(raw)
	require.NoError(t, err)
	return decoded
}

// TestNotifyContact 测试联系表单通知
func TestNotifyContact(t *testing.T) {
	m, sent := newTestMailer(t)

	sub := &domain.Submission{
		Kind:    domain.KindContact,
		Name:    "Jane",
		Email:   "jane@x.com",
		Message: "Hi",
	}

	err := m.NotifyContact(context.Background(), sub)
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	got := (*sent)[0]
	assert.Equal(t, "ops@example.com", got.from)
	assert.Equal(t, []string{"ops@example.com"}, got.to)

	msg, err := mail.ReadMessage(bytes.NewReader(got.raw))
	require.NoError(t, err)

	// Reply-To 指向提交人
	assert.Equal(t, "jane@x.com", msg.Header.Get("Reply-To"))
	assert.Equal(t, "📩 Contact from Jane", decodeSubject(t, msg.Header.Get("Subject")))

	// 发件人显示名是提交人姓名，地址是 SMTP 账号
	fromAddr, err := mail.ParseAddress(msg.Header.Get("From"))
	require.NoError(t, err)
	assert.Equal(t, "Jane", fromAddr.Name)
	assert.Equal(t, "ops@example.com", fromAddr.Address)

	// 正文是 quoted-printable 编码的 HTML
	body, err := io.ReadAll(quotedprintable.NewReader(msg.Body))
	require.NoError(t, err)
	assert.Contains(t, string(body), "New Contact Form Submission")
	assert.Contains(t, string(body), "mailto:jane@x.com")
	assert.Contains(t, string(body), "Not provided") // phone 空值回退
}

// TestNotifyApplication 测试职位申请通知
func TestNotifyApplication(t *testing.T) {
	m, sent := newTestMailer(t)

	resumeContent := []byte("%PDF-1.4 resume")
	sub := &domain.Submission{
		Kind:       domain.KindCareerApplication,
		Name:       "Jane",
		Email:      "jane@x.com",
		Phone:      "123456",
		Position:   "Backend Engineer",
		Experience: "5 years",
		Resume: &domain.Attachment{
			Filename: "resume.pdf",
			Size:     int64(len(resumeContent)),
			Content:  resumeContent,
		},
	}
	stored := &domain.StoredAttachment{
		OriginalName: "resume.pdf",
		StoredName:   "1700000000000_resume.pdf",
		PublicPath:   "/uploads/resumes/1700000000000_resume.pdf",
		Size:         int64(len(resumeContent)),
	}

	err := m.NotifyApplication(context.Background(), sub, stored)
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	msg, err := mail.ReadMessage(bytes.NewReader((*sent)[0].raw))
	require.NoError(t, err)

	assert.Equal(t, "📄 New Career Application: Backend Engineer",
		decodeSubject(t, msg.Header.Get("Subject")))

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/mixed", mediaType)

	mr := multipart.NewReader(msg.Body, params["boundary"])

	// 第一部分：HTML 正文，包含指向落盘文件的下载链接
	htmlPart, err := mr.NextPart()
	require.NoError(t, err)
	htmlBody, err := io.ReadAll(quotedprintable.NewReader(htmlPart))
	require.NoError(t, err)
	assert.Contains(t, string(htmlBody),
		"https://www.example.com/uploads/resumes/1700000000000_resume.pdf")
	assert.Contains(t, string(htmlBody), "Backend Engineer")
	assert.Contains(t, string(htmlBody), "No additional message provided")

	// 第二部分：base64 编码的简历附件，内容逐字节一致
	attPart, err := mr.NextPart()
	require.NoError(t, err)
	assert.Contains(t, attPart.Header.Get("Content-Disposition"), `filename="resume.pdf"`)
	assert.Equal(t, "application/pdf", strings.Split(attPart.Header.Get("Content-Type"), ";")[0])

	encoded, err := io.ReadAll(attPart)
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(
		strings.ReplaceAll(strings.ReplaceAll(string(encoded), "\r", ""), "\n", ""))
	require.NoError(t, err)
	assert.Equal(t, resumeContent, decoded)
}

// TestNotifyApplicationFromOverride SMTP_FROM 覆盖默认发件人
func TestNotifyApplicationFromOverride(t *testing.T) {
	m, sent := newTestMailer(t)
	m.cfg.From = `"HR Bot" <hr@example.com>`

	sub := &domain.Submission{
		Kind:       domain.KindCareerApplication,
		Name:       "Jane",
		Email:      "jane@x.com",
		Position:   "Backend Engineer",
		Experience: "5 years",
		Resume:     &domain.Attachment{Filename: "resume.pdf", Size: 4, Content: []byte("data")},
	}
	stored := &domain.StoredAttachment{StoredName: "1_resume.pdf", PublicPath: "/uploads/resumes/1_resume.pdf"}

	require.NoError(t, m.NotifyApplication(context.Background(), sub, stored))
	require.Len(t, *sent, 1)

	msg, err := mail.ReadMessage(bytes.NewReader((*sent)[0].raw))
	require.NoError(t, err)

	fromAddr, err := mail.ParseAddress(msg.Header.Get("From"))
	require.NoError(t, err)
	assert.Equal(t, "hr@example.com", fromAddr.Address)
}

// TestSubmitTimeout 发送超时被当作发送失败返回
func TestSubmitTimeout(t *testing.T) {
	m, _ := newTestMailer(t)
	m.cfg.Timeout = 20 * time.Millisecond

	block := make(chan struct{})
	defer close(block)
	m.send = func(string, []string, []byte) error {
		<-block
		return nil
	}

	err := m.NotifyContact(context.Background(), &domain.Submission{
		Kind: domain.KindContact, Name: "Jane", Email: "jane@x.com", Message: "Hi",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestSubmitSendError 底层投递错误向上传播
func TestSubmitSendError(t *testing.T) {
	m, _ := newTestMailer(t)
	m.send = func(string, []string, []byte) error {
		return errors.New("550 relay denied")
	}

	err := m.NotifyContact(context.Background(), &domain.Submission{
		Kind: domain.KindContact, Name: "Jane", Email: "jane@x.com", Message: "Hi",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relay denied")
}

// TestSendSMTPDeadline 中继无响应时发送在连接截止时间内返回，不会滞留协程
func TestSendSMTPDeadline(t *testing.T) {
	// 监听但从不发送 SMTP 问候，模拟卡死的中继
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		io.Copy(io.Discard, conn)
	}()

	m := NewMailer(config.SMTPConfig{
		Host:    "127.0.0.1",
		Port:    listener.Addr().(*net.TCPAddr).Port,
		User:    "ops@example.com",
		Pass:    "secret",
		To:      "ops@example.com",
		Timeout: 100 * time.Millisecond,
	}, "https://www.example.com", zap.NewNop())

	start := time.Now()
	err = m.sendSMTP("ops@example.com", []string{"ops@example.com"}, []byte("Subject: x\r\n\r\n"))

	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
