// test/mock/audit.go
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dev-mohitbeniwal/bookclub/audit"
)

// MockAuditService is a mock implementation of audit.Service
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogAccess(ctx context.Context, log audit.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditService) QueryLogs(ctx context.Context, from, to time.Time, userID, resourceID string) ([]audit.AuditLog, error) {
	args := m.Called(ctx, from, to, userID, resourceID)
	logs, _ := args.Get(0).([]audit.AuditLog)
	return logs, args.Error(1)
}

// RecordingAuditService keeps every log in memory.
type RecordingAuditService struct {
	mu   sync.Mutex
	Logs []audit.AuditLog
}

func (r *RecordingAuditService) LogAccess(_ context.Context, log audit.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Logs = append(r.Logs, log)
	return nil
}

func (r *RecordingAuditService) QueryLogs(context.Context, time.Time, time.Time, string, string) ([]audit.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]audit.AuditLog(nil), r.Logs...), nil
}

// Actions returns the recorded actions in order.
func (r *RecordingAuditService) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Logs))
	for i, l := range r.Logs {
		out[i] = l.Action
	}
	return out
}
