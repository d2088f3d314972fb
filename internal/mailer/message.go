package mailer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"bcsweb/backend/internal/domain"
)

// message 表示一封待编码的通知邮件
type message struct {
	from       string // RFC 5322 发件人（可含显示名）
	to         string
	replyTo    string // 可选
	subject    string
	html       string
	attachment *domain.Attachment // 可选；存在时编码为 multipart/mixed
}

// attachmentMimeTypes 简历扩展名到 MIME 类型的映射
var attachmentMimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// bytes 将邮件编码为可直接提交给 SMTP 的原始字节。
//
// 无附件时输出单一 text/html 部分（quoted-printable 编码）；
// 有附件时输出 multipart/mixed，附件以 base64 编码并按 76 列换行。
func (msg *message) bytes() ([]byte, error) {
	var buf bytes.Buffer

	writeHeader := func(key, value string) {
		fmt.Fprintf(&buf, "%s: %s\r\n", key, value)
	}

	writeHeader("From", msg.from)
	writeHeader("To", msg.to)
	if msg.replyTo != "" {
		writeHeader("Reply-To", msg.replyTo)
	}
	// 主题可能包含非 ASCII 字符，按 RFC 2047 编码
	writeHeader("Subject", mime.QEncoding.Encode("UTF-8", msg.subject))
	writeHeader("Date", time.Now().Format(time.RFC1123Z))
	writeHeader("MIME-Version", "1.0")

	if msg.attachment == nil {
		writeHeader("Content-Type", `text/html; charset="UTF-8"`)
		writeHeader("Content-Transfer-Encoding", "quoted-printable")
		buf.WriteString("\r\n")

		if err := writeQuotedPrintable(&buf, msg.html); err != nil {
			return nil, fmt.Errorf("encode html body: %w", err)
		}
		return buf.Bytes(), nil
	}

	mw := multipart.NewWriter(&buf)
	writeHeader("Content-Type", fmt.Sprintf(`multipart/mixed; boundary="%s"`, mw.Boundary()))
	buf.WriteString("\r\n")

	// HTML 正文部分
	htmlHeader := textproto.MIMEHeader{}
	htmlHeader.Set("Content-Type", `text/html; charset="UTF-8"`)
	htmlHeader.Set("Content-Transfer-Encoding", "quoted-printable")
	htmlPart, err := mw.CreatePart(htmlHeader)
	if err != nil {
		return nil, fmt.Errorf("create html part: %w", err)
	}
	if err := writeQuotedPrintable(htmlPart, msg.html); err != nil {
		return nil, fmt.Errorf("encode html body: %w", err)
	}

	// 附件部分
	filename := msg.attachment.Filename
	attHeader := textproto.MIMEHeader{}
	attHeader.Set("Content-Type", fmt.Sprintf(`%s; name="%s"`, contentTypeFor(filename), filename))
	attHeader.Set("Content-Transfer-Encoding", "base64")
	attHeader.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	attPart, err := mw.CreatePart(attHeader)
	if err != nil {
		return nil, fmt.Errorf("create attachment part: %w", err)
	}
	if err := writeBase64(attPart, msg.attachment.Content); err != nil {
		return nil, fmt.Errorf("encode attachment: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	return buf.Bytes(), nil
}

// contentTypeFor 根据扩展名推断附件的 MIME 类型
func contentTypeFor(filename string) string {
	if ct, ok := attachmentMimeTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// writeQuotedPrintable 以 quoted-printable 编码写出文本
func writeQuotedPrintable(w io.Writer, body string) error {
	qp := quotedprintable.NewWriter(w)
	if _, err := qp.Write([]byte(body)); err != nil {
		return err
	}
	return qp.Close()
}

// writeBase64 以 base64 编码写出内容，每 76 个字符换行
func writeBase64(w io.Writer, content []byte) error {
	encoded := base64.StdEncoding.EncodeToString(content)
	for len(encoded) > 0 {
		n := 76
		if n > len(encoded) {
			n = len(encoded)
		}
		if _, err := w.Write([]byte(encoded[:n])); err != nil {
			return err
		}
		if _, err := w.Write([]byte("\r\n")); err != nil {
			return err
		}
		encoded = encoded[n:]
	}
	return nil
}
