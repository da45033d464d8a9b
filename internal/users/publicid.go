package users

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/digifund/digifund-backend/pkg/enums"
)

// NewPublicID mints a role-prefixed public identifier, e.g. BIZ-1a2b3c4d.
// The random suffix is 8 hex characters; collisions are backstopped by the
// unique index on users.public_id.
func NewPublicID(role enums.UserRole) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate public id: %w", err)
	}
	return fmt.Sprintf("%s-%s", role.PublicIDPrefix(), hex.EncodeToString(buf)), nil
}
