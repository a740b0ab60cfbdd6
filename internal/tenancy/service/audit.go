package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/metrics"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

const (
	defaultAuditWriteTimeout = 5 * time.Second

	DefaultAuditPageSize = 20
	MaxAuditPageSize     = 100
)

// AuditRecorder accepts audit events without ever failing the caller.
type AuditRecorder interface {
	Record(ctx context.Context, e domain.AuditEvent)
}

// AuditService writes the tenant audit log in the background and pages it
// back out.
type AuditService struct {
	Store        store.Store
	WriteTimeout time.Duration
	Clock        func() time.Time

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewAuditService(s store.Store) *AuditService {
	return &AuditService{Store: s, WriteTimeout: defaultAuditWriteTimeout}
}

// Record stamps the event with id, time, request id and client ip from ctx
// and writes it on a detached goroutine. Failures are logged and counted.
func (s *AuditService) Record(ctx context.Context, e domain.AuditEvent) {
	l := slogx.FromContext(ctx)

	if e.ID == "" {
		e.ID = idx.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	if e.RequestID == "" {
		e.RequestID = slogx.RequestIDFromContext(ctx)
	}
	if e.IP == "" {
		e.IP = httpx.ClientIPFromContext(ctx)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		l.Warn("audit event dropped after shutdown", slog.String("action", e.Action))
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	go func() {
		defer s.wg.Done()

		wctx, cancel := context.WithTimeout(ctx, s.writeTimeout())
		defer cancel()

		if err := s.Store.AuditLogs().CreateAuditLog(wctx, e); err != nil {
			metrics.AuditWriteFailuresTotal.Inc()
			l.Warn("audit write failed",
				slog.String("action", e.Action),
				slog.String("tenant_id", e.TenantID),
				slog.Any("error", err),
			)
		}
	}()
}

// Flush waits for in-flight writes.
func (s *AuditService) Flush() { s.wg.Wait() }

// Close stops accepting events and waits for in-flight writes.
func (s *AuditService) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}

// List pages a tenant's audit log, newest first. page is clamped to >= 1 and
// pageSize to 1..MaxAuditPageSize, with 0 meaning DefaultAuditPageSize.
func (s *AuditService) List(ctx context.Context, tenantID string, page, pageSize int) (domain.AuditPage, error) {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize == 0:
		pageSize = DefaultAuditPageSize
	case pageSize < 1:
		pageSize = 1
	case pageSize > MaxAuditPageSize:
		pageSize = MaxAuditPageSize
	}

	total, err := s.Store.AuditLogs().CountAuditLogs(ctx, tenantID)
	if err != nil {
		return domain.AuditPage{}, fmt.Errorf("count audit logs: %w", err)
	}

	items, err := s.Store.AuditLogs().ListAuditLogs(ctx, tenantID, pageSize, (page-1)*pageSize)
	if err != nil {
		return domain.AuditPage{}, fmt.Errorf("list audit logs: %w", err)
	}

	return domain.AuditPage{Items: items, Page: page, PageSize: pageSize, Total: total}, nil
}

func (s *AuditService) writeTimeout() time.Duration {
	if s.WriteTimeout <= 0 {
		return defaultAuditWriteTimeout
	}
	return s.WriteTimeout
}

func (s *AuditService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// recordAudit tolerates a nil recorder.
func recordAudit(ctx context.Context, r AuditRecorder, e domain.AuditEvent) {
	if r == nil {
		return
	}
	r.Record(ctx, e)
}
