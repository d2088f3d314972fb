package httptransport

import (
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bcsweb/backend/internal/domain"
	"bcsweb/backend/internal/service"
)

// 各端点的成功提示，与站点历史行为保持一致
const (
	msgApplicationSubmitted       = "Application submitted successfully"
	msgCareerApplicationSubmitted = "Career application submitted successfully"
	msgContactSent                = "Message sent successfully!"
	msgEmailSent                  = "Your message has been sent successfully!"
)

// IntakeHandler 表单接收处理器。
// 三个端点只是同一条管线的不同解码入口。
type IntakeHandler struct {
	intake *service.IntakeService
	logger *zap.Logger
}

// NewIntakeHandler 创建表单接收处理器
func NewIntakeHandler(intake *service.IntakeService, logger *zap.Logger) *IntakeHandler {
	return &IntakeHandler{
		intake: intake,
		logger: logger,
	}
}

// contactPayload 联系表单的 JSON 载荷
type contactPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// CareerApply 处理职位申请（multipart 表单 + 简历文件）
//
// POST /api/careers/apply
func (h *IntakeHandler) CareerApply(c *gin.Context) {
	sub, err := h.decodeCareerForm(c)
	if err != nil {
		h.logger.Error("failed to decode career form", zap.Error(err))
		ServerError(c)
		return
	}

	h.handleSubmit(c, sub, msgApplicationSubmitted)
}

// ContactCareer 处理联系/职位复合端点。
// multipart 请求按职位申请处理，其余按 JSON 联系表单处理。
//
// POST /api/contact-career
func (h *IntakeHandler) ContactCareer(c *gin.Context) {
	contentType := c.GetHeader("Content-Type")

	if strings.Contains(contentType, "multipart/form-data") {
		sub, err := h.decodeCareerForm(c)
		if err != nil {
			h.logger.Error("failed to decode career form", zap.Error(err))
			ServerError(c)
			return
		}
		h.handleSubmit(c, sub, msgCareerApplicationSubmitted)
		return
	}

	sub, ok := h.decodeContactJSON(c)
	if !ok {
		return
	}
	h.handleSubmit(c, sub, msgContactSent)
}

// SendEmail 处理联系表单（JSON）
//
// POST /api/send-email
func (h *IntakeHandler) SendEmail(c *gin.Context) {
	sub, ok := h.decodeContactJSON(c)
	if !ok {
		return
	}

	h.handleSubmit(c, sub, msgEmailSent)
}

// decodeContactJSON 把 JSON 请求体解码为联系表单提交。
// 解码失败不属于字段校验，按内部错误写出 500 响应并返回 ok=false。
func (h *IntakeHandler) decodeContactJSON(c *gin.Context) (*domain.Submission, bool) {
	var payload contactPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Error("failed to decode contact payload", zap.Error(err))
		ServerError(c)
		return nil, false
	}

	return &domain.Submission{
		Kind:    domain.KindContact,
		Name:    payload.Name,
		Email:   payload.Email,
		Phone:   payload.Phone,
		Message: payload.Message,
	}, true
}

// decodeCareerForm 把 multipart 表单解码为职位申请提交。
// 缺失的简历文件不在这里报错，由管线校验统一处理。
func (h *IntakeHandler) decodeCareerForm(c *gin.Context) (*domain.Submission, error) {
	sub := &domain.Submission{
		Kind:       domain.KindCareerApplication,
		Name:       c.PostForm("name"),
		Email:      c.PostForm("email"),
		Phone:      c.PostForm("phone"),
		Position:   c.PostForm("position"),
		Experience: c.PostForm("experience"),
		Message:    c.PostForm("message"),
	}

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			return nil, err
		}
		// 文件缺失交给校验层报告
		return sub, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	sub.Resume = &domain.Attachment{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  content,
	}

	return sub, nil
}

// handleSubmit 执行管线并把结果映射为统一响应
func (h *IntakeHandler) handleSubmit(c *gin.Context, sub *domain.Submission, successMessage string) {
	_, err := h.intake.Submit(c.Request.Context(), sub)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			BadRequest(c, verr.Message)
			return
		}
		// 存储等内部错误：细节已在管线内记录，这里只返回通用消息
		ServerError(c)
		return
	}

	OK(c, successMessage)
}
