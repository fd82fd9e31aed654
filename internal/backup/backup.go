package backup

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sethvargo/go-retry"
)

const keyPrefix = "listou/"

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, input *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// Config holds backup manager configuration. A non-empty Passphrase makes
// every upload AES-256-GCM encrypted with an Argon2id-derived key.
type Config struct {
	S3            S3Config
	DBPath        string
	ScheduleHour  int
	RetentionDays int
	Passphrase    string
}

// Manager snapshots the SQLite database to S3-compatible storage on a daily
// schedule. It is disabled when no S3 credentials are configured.
type Manager struct {
	mu     sync.RWMutex
	cfg    Config
	client s3Client
	db     *sql.DB
	logger *slog.Logger

	lastRun time.Time
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewManager creates a new backup manager.
func NewManager(cfg Config, db *sql.DB, logger *slog.Logger) *Manager {
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 30
	}
	m := &Manager{cfg: cfg, db: db, logger: logger}
	if cfg.S3.Bucket != "" && cfg.S3.AccessKey != "" && cfg.S3.SecretKey != "" {
		m.client = newS3Client(cfg.S3)
	}
	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Enabled reports whether the manager has storage configured.
func (m *Manager) Enabled() bool {
	return m.client != nil
}

// Start begins the scheduled backup loop.
func (m *Manager) Start(ctx context.Context) {
	if !m.Enabled() {
		return
	}

	m.mu.Lock()
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	m.mu.Unlock()

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.checkSchedule(ctx)
			}
		}
	}()
}

// Stop gracefully stops the backup manager.
func (m *Manager) Stop() {
	m.mu.RLock()
	cancel := m.cancel
	done := m.done
	m.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (m *Manager) checkSchedule(ctx context.Context) {
	now := time.Now().UTC()
	if now.Hour() != m.cfg.ScheduleHour || now.Minute() != 0 {
		return
	}

	m.mu.RLock()
	ranToday := m.lastRun.Year() == now.Year() && m.lastRun.YearDay() == now.YearDay()
	m.mu.RUnlock()
	if ranToday {
		return
	}

	if err := m.RunNow(ctx); err != nil {
		m.logger.Error("scheduled backup failed", "error", err)
		return
	}
	if err := m.prune(ctx); err != nil {
		m.logger.Error("backup prune failed", "error", err)
	}
}

// RunNow snapshots the database and uploads it immediately.
func (m *Manager) RunNow(ctx context.Context) error {
	if !m.Enabled() {
		return fmt.Errorf("backup not configured: S3 credentials missing")
	}

	data, err := m.snapshot(ctx)
	if err != nil {
		return err
	}

	key := keyPrefix + time.Now().UTC().Format("backup-20060102-150405.db")
	if m.cfg.Passphrase != "" {
		data, err = encrypt(data, m.cfg.Passphrase)
		if err != nil {
			return fmt.Errorf("encrypt backup: %w", err)
		}
		key += ".enc"
	}
	if err := m.upload(ctx, key, data); err != nil {
		return err
	}

	m.mu.Lock()
	m.lastRun = time.Now().UTC()
	m.mu.Unlock()

	m.logger.Info("backup uploaded", "key", key, "bytes", len(data))
	return nil
}

// snapshot produces a consistent copy of the live database using VACUUM INTO.
func (m *Manager) snapshot(ctx context.Context) ([]byte, error) {
	dir, err := os.MkdirTemp("", "listou-backup-*")
	if err != nil {
		return nil, fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "snapshot.db")
	if _, err := m.db.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return nil, fmt.Errorf("vacuum into: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

// upload puts the snapshot, retrying transient failures with exponential
// backoff.
func (m *Manager) upload(ctx context.Context, key string, data []byte) error {
	backoff := retry.WithMaxRetries(4, retry.NewExponential(time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(m.cfg.S3.Bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(data),
		})
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upload backup: %w", err)
	}
	return nil
}

// prune deletes backups older than the retention window.
func (m *Manager) prune(ctx context.Context) error {
	out, err := m.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(m.cfg.S3.Bucket),
		Prefix: aws.String(keyPrefix),
	})
	if err != nil {
		return fmt.Errorf("list backups: %w", err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -m.cfg.RetentionDays)
	for _, obj := range out.Contents {
		if obj.Key == nil || obj.LastModified == nil || !obj.LastModified.Before(cutoff) {
			continue
		}
		_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(m.cfg.S3.Bucket),
			Key:    obj.Key,
		})
		if err != nil {
			return fmt.Errorf("delete old backup %s: %w", *obj.Key, err)
		}
		m.logger.Info("pruned backup", "key", *obj.Key)
	}
	return nil
}
