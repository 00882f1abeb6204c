package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/bookclub/logging"
	pdp_model "github.com/dev-mohitbeniwal/bookclub/pdp/model"
)

// OperationEvaluator decides, before a resolver runs, whether the caller may
// run the operation. Operations without a policy are denied.
type OperationEvaluator struct {
	policies map[string]pdp_model.OperationPolicy
}

func NewOperationEvaluator(policies []pdp_model.OperationPolicy) (*OperationEvaluator, error) {
	byKey := make(map[string]pdp_model.OperationPolicy, len(policies))
	for _, p := range policies {
		if p.Operation == "" {
			return nil, fmt.Errorf("policy without operation name")
		}
		if p.Kind != pdp_model.KindQuery && p.Kind != pdp_model.KindMutation {
			return nil, fmt.Errorf("policy %s: unknown kind %q", p.Operation, p.Kind)
		}
		if _, dup := byKey[p.Key()]; dup {
			return nil, fmt.Errorf("duplicate policy for %s", p.Key())
		}
		byKey[p.Key()] = p
	}
	return &OperationEvaluator{policies: byKey}, nil
}

func (e *OperationEvaluator) Evaluate(ctx context.Context, request pdp_model.OperationRequest) *pdp_model.AccessDecision {
	policy, ok := e.policies[request.Kind+":"+request.Operation]
	if !ok {
		logger.Warn("No policy declared for operation",
			zap.String("kind", request.Kind),
			zap.String("operation", request.Operation))
		return &pdp_model.AccessDecision{
			Effect: pdp_model.EffectDeny,
			Reason: "No matching policy found",
		}
	}

	if policy.RequiresAuth && !request.Authenticated() {
		return &pdp_model.AccessDecision{
			Effect: pdp_model.EffectDeny,
			Reason: "Authentication required",
			Policy: policy.Key(),
		}
	}

	return &pdp_model.AccessDecision{
		Effect: pdp_model.EffectAllow,
		Policy: policy.Key(),
	}
}

// Policy returns the policy declared for kind and operation.
func (e *OperationEvaluator) Policy(kind, operation string) (pdp_model.OperationPolicy, bool) {
	p, ok := e.policies[kind+":"+operation]
	return p, ok
}
