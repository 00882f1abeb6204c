package model

// OperationPolicy declares who may run a GraphQL field. Every field exposed
// by the schema has exactly one.
type OperationPolicy struct {
	Operation    string
	Kind         string
	RequiresAuth bool
	Description  string
}

// Key identifies a policy by kind and operation name.
func (p OperationPolicy) Key() string {
	return p.Kind + ":" + p.Operation
}
