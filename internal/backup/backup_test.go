package backup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/rcandido/listou/internal/database"
)

// mockS3Client implements s3Client for testing.
type mockS3Client struct {
	mu       sync.Mutex
	objects  map[string][]byte
	modified map[string]time.Time
	putErrs  int
}

func newMockS3() *mockS3Client {
	return &mockS3Client{
		objects:  make(map[string][]byte),
		modified: make(map[string]time.Time),
	}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErrs > 0 {
		m.putErrs--
		return nil, errors.New("transient put failure")
	}
	data, _ := io.ReadAll(input.Body)
	m.objects[*input.Key] = data
	m.modified[*input.Key] = time.Now().UTC()
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Client) ListObjectsV2(_ context.Context, _ *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := &s3.ListObjectsV2Output{}
	for key := range m.objects {
		k := key
		mod := m.modified[key]
		out.Contents = append(out.Contents, types.Object{Key: &k, LastModified: &mod})
	}
	return out, nil
}

func (m *mockS3Client) DeleteObject(_ context.Context, input *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *input.Key)
	delete(m.modified, *input.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func setupBackupTest(t *testing.T) (*Manager, *mockS3Client) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mock := newMockS3()
	m := NewManager(Config{
		S3:            S3Config{Bucket: "test", AccessKey: "k", SecretKey: "s"},
		RetentionDays: 7,
	}, db, slog.Default())
	m.client = mock
	return m, mock
}

func TestRunNowUploads(t *testing.T) {
	m, mock := setupBackupTest(t)

	if err := m.RunNow(context.Background()); err != nil {
		t.Fatalf("run now: %v", err)
	}

	mock.mu.Lock()
	defer mock.mu.Unlock()
	if len(mock.objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(mock.objects))
	}
	for key, data := range mock.objects {
		if len(data) == 0 {
			t.Errorf("object %s is empty", key)
		}
	}
}

func TestRunNowRetriesTransientFailures(t *testing.T) {
	m, mock := setupBackupTest(t)
	mock.putErrs = 2

	if err := m.RunNow(context.Background()); err != nil {
		t.Fatalf("run now should have retried past transient errors: %v", err)
	}

	mock.mu.Lock()
	defer mock.mu.Unlock()
	if len(mock.objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(mock.objects))
	}
}

func TestRunNowDisabled(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	m := NewManager(Config{}, db, slog.Default())
	if m.Enabled() {
		t.Fatal("manager without credentials should be disabled")
	}
	if err := m.RunNow(context.Background()); err == nil {
		t.Fatal("expected error when not configured")
	}
}

func TestPruneDeletesOldBackups(t *testing.T) {
	m, mock := setupBackupTest(t)

	old := time.Now().UTC().AddDate(0, 0, -30)
	mock.objects[keyPrefix+"backup-old.db"] = []byte("old")
	mock.modified[keyPrefix+"backup-old.db"] = old
	mock.objects[keyPrefix+"backup-new.db"] = []byte("new")
	mock.modified[keyPrefix+"backup-new.db"] = time.Now().UTC()

	if err := m.prune(context.Background()); err != nil {
		t.Fatalf("prune: %v", err)
	}

	mock.mu.Lock()
	defer mock.mu.Unlock()
	if _, ok := mock.objects[keyPrefix+"backup-old.db"]; ok {
		t.Error("old backup should have been pruned")
	}
	if _, ok := mock.objects[keyPrefix+"backup-new.db"]; !ok {
		t.Error("recent backup should have been kept")
	}
}
