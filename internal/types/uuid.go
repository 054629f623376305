package types

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// UUID prefixes for all domain entities
	UUID_PREFIX_TEMPLATE          = "tmpl"
	UUID_PREFIX_TEMPLATE_OVERRIDE = "ovr"
	UUID_PREFIX_PLAN              = "plan"
	UUID_PREFIX_SUBSCRIPTION      = "subs"
	UUID_PREFIX_USAGE_PERIOD      = "usage"
	UUID_PREFIX_DOCUMENT          = "doc"
	UUID_PREFIX_EXECUTION         = "exec"
	UUID_PREFIX_ORGANIZATION      = "org"
	UUID_PREFIX_USER              = "user"
	UUID_PREFIX_REQUEST           = "req"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader).String())
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a readable entity prefix, ex "tmpl_01hgd..."
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return prefix + "_" + GenerateUUID()
}
