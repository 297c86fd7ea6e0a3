package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a stable UUID from key with go-hashid. Keys are namespaced
// by callers so different entity types never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// RecordUUID returns the id of the record with natural key key inside
// entityType. Re-importing the same fixture yields the same id.
func RecordUUID(entityType, key string) uuid.UUID {
	entityType = strings.ToLower(strings.TrimSpace(entityType))
	key = strings.TrimSpace(key)
	if entityType == "" || key == "" {
		return uuid.Nil
	}
	return UUID("unicms:record:" + entityType + ":" + key)
}
