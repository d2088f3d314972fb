package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bcsweb/backend/internal/domain"
)

// Store 简历附件的文件系统存储实现
type Store struct {
	baseDir      string // 附件存储根目录
	publicPrefix string // 对外 URL 前缀，如 "/uploads/resumes"
}

// NewStore 创建文件系统存储实例
//
// 基础目录不存在时递归创建（幂等）。
func NewStore(baseDir, publicPrefix string) (*Store, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("base directory must not be empty")
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}

	return &Store{
		baseDir:      baseDir,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
	}, nil
}

// BaseDir 返回附件存储根目录
func (s *Store) BaseDir() string {
	return s.baseDir
}

// SaveResume 将简历字节写入存储并返回落盘信息。
//
// 存储名格式: <毫秒时间戳>_<清洗后的原始文件名>。
// 时间戳前缀保证了每次提交的文件名唯一（同毫秒冲突概率可忽略），
// 因此并发写入无需互斥。
func (s *Store) SaveResume(originalName string, content []byte) (*domain.StoredAttachment, error) {
	safeName := domain.SanitizeFilename(originalName)
	storedName := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), safeName)

	// 基础目录可能在进程运行期间被外部删除，写入前再补一次
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}

	dst := filepath.Join(s.baseDir, storedName)
	if err := os.WriteFile(dst, content, 0644); err != nil {
		return nil, fmt.Errorf("write resume: %w", err)
	}

	return &domain.StoredAttachment{
		OriginalName: originalName,
		StoredName:   storedName,
		PublicPath:   s.publicPrefix + "/" + storedName,
		Size:         int64(len(content)),
	}, nil
}
