package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldCallLLM(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	policy := GuardPolicy{Enabled: true, UserCooldown: time.Minute, GlobalInterval: 2 * time.Second}

	tests := []struct {
		name       string
		policy     GuardPolicy
		lastUser   time.Time
		lastGlobal time.Time
		want       bool
		reason     FallbackReason
	}{
		{"disabled", GuardPolicy{}, time.Time{}, time.Time{}, false, ReasonDisabled},
		{"never called", policy, time.Time{}, time.Time{}, true, ReasonNone},
		{"user cooldown active", policy, now.Add(-30 * time.Second), time.Time{}, false, ReasonUserCooldown},
		{"user cooldown elapsed", policy, now.Add(-time.Minute), now.Add(-time.Minute), true, ReasonNone},
		{"global interval active", policy, time.Time{}, now.Add(-time.Second), false, ReasonGlobalInterval},
		{"both active reports user first", policy, now.Add(-time.Second), now.Add(-time.Second), false, ReasonUserCooldown},
		{"zero cooldowns always allow", GuardPolicy{Enabled: true}, now, now, true, ReasonNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := ShouldCallLLM(now, tt.lastUser, tt.lastGlobal, tt.policy)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestGuardPolicy_Retention(t *testing.T) {
	assert.Equal(t, 48*time.Hour, GuardPolicy{UserCooldown: 48 * time.Hour, GlobalInterval: time.Second}.Retention())
	assert.Equal(t, time.Minute, GuardPolicy{UserCooldown: time.Second, GlobalInterval: time.Minute}.Retention())
	assert.Zero(t, GuardPolicy{}.Retention())
}
