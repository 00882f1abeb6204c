package model

// Decision effects.
const (
	EffectAllow = "allow"
	EffectDeny  = "deny"
)

type AccessDecision struct {
	Effect string `json:"effect"`
	Reason string `json:"reason,omitempty"`
	Policy string `json:"policy,omitempty"`
}

func (d *AccessDecision) Allowed() bool {
	return d != nil && d.Effect == EffectAllow
}
