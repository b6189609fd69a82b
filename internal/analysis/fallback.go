package analysis

import "time"

// GuardPolicy bounds how often the LLM may be called.
type GuardPolicy struct {
	Enabled        bool
	UserCooldown   time.Duration
	GlobalInterval time.Duration
}

// Retention is how long a recorded call must stay readable for the guards
// to see it.
func (p GuardPolicy) Retention() time.Duration {
	return max(p.UserCooldown, p.GlobalInterval)
}

// FallbackReason says why the heuristic was used instead of the LLM.
type FallbackReason string

const (
	ReasonNone           FallbackReason = ""
	ReasonDisabled       FallbackReason = "llm_disabled"
	ReasonUserCooldown   FallbackReason = "user_cooldown"
	ReasonGlobalInterval FallbackReason = "global_interval"
	ReasonGuardError     FallbackReason = "guard_unavailable"
	ReasonLLMError       FallbackReason = "llm_error"
)

// ShouldCallLLM compares the last recorded call times with now. A zero time
// means no call was recorded. Both guards must pass.
func ShouldCallLLM(now, lastUserCall, lastGlobalCall time.Time, p GuardPolicy) (bool, FallbackReason) {
	if !p.Enabled {
		return false, ReasonDisabled
	}
	if !lastUserCall.IsZero() && now.Sub(lastUserCall) < p.UserCooldown {
		return false, ReasonUserCooldown
	}
	if !lastGlobalCall.IsZero() && now.Sub(lastGlobalCall) < p.GlobalInterval {
		return false, ReasonGlobalInterval
	}
	return true, ReasonNone
}
