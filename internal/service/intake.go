package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bcsweb/backend/internal/domain"
	"bcsweb/backend/internal/monitoring"
)

// AttachmentStore 附件存储接口
type AttachmentStore interface {
	SaveResume(originalName string, content []byte) (*domain.StoredAttachment, error)
}

// Notifier 通知发送接口
type Notifier interface {
	NotifyContact(ctx context.Context, sub *domain.Submission) error
	NotifyApplication(ctx context.Context, sub *domain.Submission, stored *domain.StoredAttachment) error
}

// IntakeService 封装三个入口共用的接收管线：校验 → 落盘附件 → 发送通知。
//
// 管线按请求独立执行，不持有跨请求的可变状态。
// 校验失败不产生任何副作用；落盘失败终止请求；通知失败只记录日志，
// 不改变请求结果（沿用线上行为，见 DESIGN.md）。
type IntakeService struct {
	store    AttachmentStore
	notifier Notifier
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewIntakeService 创建接收管线服务
func NewIntakeService(store AttachmentStore, notifier Notifier, metrics *monitoring.Metrics, logger *zap.Logger) *IntakeService {
	return &IntakeService{
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// Submit 执行一次完整的管线。
//
// 返回落盘的附件信息（联系表单为 nil）。校验失败返回 *domain.ValidationError，
// 存储失败返回包装后的错误；两者都表示管线已终止。
func (s *IntakeService) Submit(ctx context.Context, sub *domain.Submission) (*domain.StoredAttachment, error) {
	id := uuid.NewString()

	if err := sub.Validate(); err != nil {
		s.metrics.RecordSubmission(string(sub.Kind), "rejected")
		s.logger.Info("submission rejected",
			zap.String("submission_id", id),
			zap.String("kind", string(sub.Kind)),
			zap.Error(err),
		)
		return nil, err
	}

	var stored *domain.StoredAttachment
	if sub.Resume != nil {
		var err error
		stored, err = s.store.SaveResume(sub.Resume.Filename, sub.Resume.Content)
		if err != nil {
			s.metrics.RecordSubmission(string(sub.Kind), "storage_error")
			s.logger.Error("failed to store resume",
				zap.String("submission_id", id),
				zap.String("filename", sub.Resume.Filename),
				zap.Error(err),
			)
			return nil, fmt.Errorf("store resume: %w", err)
		}

		s.metrics.RecordResumeSize(stored.Size)
		s.logger.Info("resume stored",
			zap.String("submission_id", id),
			zap.String("stored_name", stored.StoredName),
			zap.Int64("size", stored.Size),
		)
	}

	// 文件已经落盘，通知无论成败都不回滚；失败只记录并计数。
	if err := s.notify(ctx, sub, stored); err != nil {
		s.metrics.RecordNotifyFailure()
		s.logger.Error("failed to send notification email",
			zap.String("submission_id", id),
			zap.String("kind", string(sub.Kind)),
			zap.Error(err),
		)
	}

	s.metrics.RecordSubmission(string(sub.Kind), "accepted")
	s.logger.Info("submission accepted",
		zap.String("submission_id", id),
		zap.String("kind", string(sub.Kind)),
		zap.String("email", sub.Email),
	)

	return stored, nil
}

func (s *IntakeService) notify(ctx context.Context, sub *domain.Submission, stored *domain.StoredAttachment) error {
	if sub.Kind == domain.KindCareerApplication {
		return s.notifier.NotifyApplication(ctx, sub, stored)
	}
	return s.notifier.NotifyContact(ctx, sub)
}
