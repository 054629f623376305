package types

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// LockScope represents the scope of a database advisory lock
type LockScope string

const (
	// LockScopeOverrideMaterialize guards lazy creation of user overrides
	LockScopeOverrideMaterialize LockScope = "override_materialize"
)

// LockRequest describes an advisory lock to acquire inside a transaction
type LockRequest struct {
	Key     string
	Timeout *time.Duration
}

// GetTimeout returns the requested timeout, defaulting to 30 seconds
func (r LockRequest) GetTimeout() time.Duration {
	if r.Timeout == nil {
		return 30 * time.Second
	}
	return *r.Timeout
}

// GenerateLockKey generates a deterministic lock key from a scope and
// parameters. The acting user is taken from the context and included in the
// key. Postgres hashes the string internally via hashtext().
func GenerateLockKey(ctx context.Context, scope LockScope, params map[string]interface{}) string {
	merged := make(map[string]interface{}, len(params)+1)

	if userID := GetUserID(ctx); userID != "" {
		merged["user_id"] = userID
	}
	for k, v := range params {
		merged[k] = v
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(string(scope))
	for _, k := range keys {
		b.WriteString(fmt.Sprintf(":%s=%v", k, merged[k]))
	}
	return b.String()
}

// TableName represents a database table name
type TableName string

const (
	TableNameTemplates           TableName = "templates"
	TableNameTemplateOverrides   TableName = "template_overrides"
	TableNameTemplateAssignments TableName = "template_assignments"
	TableNamePlans               TableName = "plans"
	TableNameSubscriptions       TableName = "subscriptions"
	TableNameUsagePeriods        TableName = "usage_periods"
	TableNameDocuments           TableName = "documents"
	TableNameExecutions          TableName = "executions"
	TableNameOrganizations       TableName = "organizations"
	TableNameOrganizationMembers TableName = "organization_members"
)
