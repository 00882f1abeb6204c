// Package graph serves the bookclub GraphQL schema.
package graph

import (
	"context"
	"time"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/bookclub/audit"
	"github.com/dev-mohitbeniwal/bookclub/auth"
	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	logger "github.com/dev-mohitbeniwal/bookclub/logging"
	"github.com/dev-mohitbeniwal/bookclub/metrics"
	"github.com/dev-mohitbeniwal/bookclub/model"
	"github.com/dev-mohitbeniwal/bookclub/pdp/engine"
	pdp_model "github.com/dev-mohitbeniwal/bookclub/pdp/model"
	"github.com/dev-mohitbeniwal/bookclub/service"
)

// Resolver holds what the root fields need. Metrics and Audit are optional.
type Resolver struct {
	Services  *service.Services
	Evaluator *engine.OperationEvaluator
	Audit     audit.Service
	Metrics   *metrics.Metrics
}

// guard runs resolve only when the evaluator allows the operation for the
// identity found on the request context.
func (r *Resolver) guard(kind, operation string, resolve graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		identity := auth.IdentityFromContext(p.Context)
		decision := r.Evaluator.Evaluate(p.Context, pdp_model.OperationRequest{
			Operation: operation,
			Kind:      kind,
			Subject:   identity,
			Timestamp: time.Now(),
		})
		if !decision.Allowed() {
			r.denied(p.Context, operation, identity, decision)
			return nil, bookclub_errors.ErrUnauthorized
		}

		result, err := resolve(p)
		if err != nil {
			return nil, publicError(operation, err)
		}
		return result, nil
	}
}

func (r *Resolver) denied(ctx context.Context, operation string, identity *model.Identity, decision *pdp_model.AccessDecision) {
	userID := ""
	if identity != nil {
		userID = identity.ID
	}
	logger.Info("Operation denied",
		zap.String("operation", operation),
		zap.String("userID", userID),
		zap.String("reason", decision.Reason))

	if r.Metrics != nil {
		r.Metrics.AccessDenials.WithLabelValues(operation).Inc()
	}
	if r.Audit != nil {
		err := r.Audit.LogAccess(ctx, audit.AuditLog{
			Timestamp:     time.Now(),
			UserID:        userID,
			Action:        audit.ActionOperationDenied,
			Operation:     operation,
			AccessGranted: false,
			ChangeDetails: audit.Details(decision),
		})
		if err != nil {
			logger.Warn("Failed to audit denied operation", zap.Error(err))
		}
	}
}

// caller returns the identity a guarded resolver runs as. The guard has
// already rejected anonymous callers for operations that need one.
func caller(p graphql.ResolveParams) (model.Identity, error) {
	identity := auth.IdentityFromContext(p.Context)
	if identity == nil {
		return model.Identity{}, bookclub_errors.ErrUnauthorized
	}
	return *identity, nil
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

func intArg(p graphql.ResolveParams, name string) int {
	n, _ := p.Args[name].(int)
	return n
}
