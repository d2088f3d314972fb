package filesystem

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试辅助函数：创建临时存储实例
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "resumes"), "/uploads/resumes")
	require.NoError(t, err)

	return store
}

// TestNewStore 测试创建存储实例
func TestNewStore(t *testing.T) {
	t.Run("create store with valid path", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "resumes")

		store, err := NewStore(dir, "/uploads/resumes")
		require.NoError(t, err)
		assert.NotNil(t, store)

		// 验证目录已创建
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("create store creates nested directories", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "public", "uploads", "resumes")

		_, err := NewStore(dir, "/uploads/resumes")
		require.NoError(t, err)

		_, err = os.Stat(dir)
		assert.NoError(t, err)
	})

	t.Run("empty base directory rejected", func(t *testing.T) {
		store, err := NewStore("  ", "/uploads/resumes")
		assert.Error(t, err)
		assert.Nil(t, store)
	})

	t.Run("creating store twice is idempotent", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "resumes")

		_, err := NewStore(dir, "/uploads/resumes")
		require.NoError(t, err)
		_, err = NewStore(dir, "/uploads/resumes")
		assert.NoError(t, err)
	})
}

// TestSaveResume 测试简历落盘
func TestSaveResume(t *testing.T) {
	storedNamePattern := regexp.MustCompile(`^\d+_[A-Za-z0-9._]+$`)

	t.Run("round-trips content exactly", func(t *testing.T) {
		store := setupTestStore(t)
		content := []byte("%PDF-1.4 fake resume content")

		stored, err := store.SaveResume("resume.pdf", content)
		require.NoError(t, err)

		onDisk, err := os.ReadFile(filepath.Join(store.BaseDir(), stored.StoredName))
		require.NoError(t, err)
		assert.Equal(t, content, onDisk)
		assert.Equal(t, int64(len(content)), stored.Size)
	})

	t.Run("stored name is timestamp plus sanitized original", func(t *testing.T) {
		store := setupTestStore(t)

		stored, err := store.SaveResume("my resume (final).pdf", []byte("data"))
		require.NoError(t, err)

		assert.True(t, storedNamePattern.MatchString(stored.StoredName),
			"unexpected stored name %q", stored.StoredName)
		assert.Contains(t, stored.StoredName, "_my_resume__final_.pdf")
		assert.Equal(t, "my resume (final).pdf", stored.OriginalName)
	})

	t.Run("unicode filename is sanitized", func(t *testing.T) {
		store := setupTestStore(t)

		stored, err := store.SaveResume("r é.pdf", []byte("0123456789"))
		require.NoError(t, err)

		assert.True(t, storedNamePattern.MatchString(stored.StoredName))
		assert.Contains(t, stored.StoredName, "_r__.pdf")
	})

	t.Run("public path joins prefix and stored name", func(t *testing.T) {
		store := setupTestStore(t)

		stored, err := store.SaveResume("resume.docx", []byte("data"))
		require.NoError(t, err)

		assert.Equal(t, "/uploads/resumes/"+stored.StoredName, stored.PublicPath)
	})

	t.Run("write failure surfaces error", func(t *testing.T) {
		if os.Getuid() == 0 {
			t.Skip("permission checks do not apply to root")
		}

		store := setupTestStore(t)
		require.NoError(t, os.Chmod(store.BaseDir(), 0555))
		defer os.Chmod(store.BaseDir(), 0755)

		stored, err := store.SaveResume("resume.pdf", []byte("data"))
		assert.Error(t, err)
		assert.Nil(t, stored)
	})
}
