package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// 校验常量
const (
	// MaxResumeSize 简历附件大小上限（5 MiB）
	MaxResumeSize = 5 * 1024 * 1024
)

// allowedResumeExts 允许的简历扩展名（小写）
var allowedResumeExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// 用户可见的校验消息
const (
	MsgContactFieldsRequired = "Name, email, and message are required."
	MsgMissingFields         = "Missing required fields"
	MsgFileTooLarge          = "File size too large (max 5MB)"
	MsgInvalidFileType       = "Invalid file type. Only PDF, DOC, and DOCX are allowed."
)

// unsafeFilenameChars 匹配文件名中所有需要替换的字符。
// 与历史行为保持一致：字母、数字、点之外的字符一律替换为下划线。
var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.]`)

// ValidationError 表示提交未通过校验。
// Field 指出第一个缺失或非法的字段，Message 是返回给调用方的提示。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Message)
}

// Validate 按提交类型校验必填字段和附件约束。
//
// 校验顺序固定：
//  1. 必填文本字段（name、email；联系表单的 message；职位申请的 position、experience）
//  2. 职位申请必须携带附件
//  3. 附件大小 ≤ MaxResumeSize
//  4. 附件扩展名 ∈ {.pdf, .doc, .docx}（不区分大小写）
//
// 校验不做任何 I/O，失败时返回 *ValidationError。
func (s *Submission) Validate() error {
	switch s.Kind {
	case KindContact:
		return s.validateContact()
	case KindCareerApplication:
		return s.validateApplication()
	default:
		return &ValidationError{Field: "kind", Message: MsgMissingFields}
	}
}

func (s *Submission) validateContact() error {
	for _, f := range []struct{ name, value string }{
		{"name", s.Name},
		{"email", s.Email},
		{"message", s.Message},
	} {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name, Message: MsgContactFieldsRequired}
		}
	}
	return nil
}

func (s *Submission) validateApplication() error {
	for _, f := range []struct{ name, value string }{
		{"name", s.Name},
		{"email", s.Email},
		{"position", s.Position},
		{"experience", s.Experience},
	} {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name, Message: MsgMissingFields}
		}
	}

	if s.Resume == nil || len(s.Resume.Content) == 0 {
		return &ValidationError{Field: "resume", Message: MsgMissingFields}
	}

	if s.Resume.Size > MaxResumeSize {
		return &ValidationError{Field: "resume", Message: MsgFileTooLarge}
	}

	ext := strings.ToLower(filepath.Ext(s.Resume.Filename))
	if !allowedResumeExts[ext] {
		return &ValidationError{Field: "resume", Message: MsgInvalidFileType}
	}

	return nil
}

// SanitizeFilename 清洗上传文件名，替换所有不安全字符为下划线。
// 结果只包含 [A-Za-z0-9.]，可以安全用于本地路径和 URL。
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}
