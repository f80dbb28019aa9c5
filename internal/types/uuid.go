package types

import (
	"fmt"

	"github.com/google/uuid"
)

// Typed ID prefixes keep entity IDs recognizable in logs and payloads.
const (
	UUID_PREFIX_MEMBERSHIP       = "memb"
	UUID_PREFIX_PASS_COLLECTION  = "pass"
	UUID_PREFIX_COMMUNITY_MEMBER = "cmem"
	UUID_PREFIX_ANALYTICS        = "anly"
	UUID_PREFIX_JOB_EXECUTION    = "jexe"
)

// GenerateUUID returns a plain UUIDv4 string.
func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateUUIDWithPrefix returns a prefixed UUID, e.g. memb_5f4d....
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}
