package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPeriodKey(t *testing.T) {
	assert.Equal(t, PeriodKey("2026-08"), NewPeriodKey(time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, PeriodKey("2026-01"), NewPeriodKey(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPeriodKeyValidate(t *testing.T) {
	assert.NoError(t, PeriodKey("2026-08").Validate())
	assert.Error(t, PeriodKey("2026-8").Validate())
	assert.Error(t, PeriodKey("Aug 2026").Validate())
	assert.Error(t, PeriodKey("").Validate())
}

func TestOverrideScopeTier(t *testing.T) {
	assert.Equal(t, OverrideTierUser, UserScope("user_1").Tier())
	assert.Equal(t, OverrideTierOrganization, OrganizationScope("org_1").Tier())
	assert.Equal(t, OverrideTierGlobal, GlobalScope().Tier())
}

func TestOverrideScopeValidate(t *testing.T) {
	assert.NoError(t, UserScope("user_1").Validate())
	assert.Error(t, UserScope("").Validate())
	assert.NoError(t, GlobalScope().Validate())
	assert.Error(t, OverrideScope{Kind: OverrideScopeGlobal, UserID: "user_1"}.Validate())
}
