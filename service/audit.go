// service/audit.go
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/bookclub/audit"
	logger "github.com/dev-mohitbeniwal/bookclub/logging"
)

// recordAudit writes log and only warns on failure; a missing audit entry
// never fails the operation it describes.
func recordAudit(ctx context.Context, auditService audit.Service, log audit.AuditLog) {
	if auditService == nil {
		return
	}
	log.AccessGranted = true
	if err := auditService.LogAccess(ctx, log); err != nil {
		logger.Warn("Failed to create audit log",
			zap.String("action", log.Action),
			zap.String("resourceID", log.ResourceID),
			zap.Error(err))
	}
}
