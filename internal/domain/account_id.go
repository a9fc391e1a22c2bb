// internal/domain/account_id.go
package domain

import (
	"fmt"

	"github.com/google/uuid"

	"finflow-account/internal/util"
)

// AccountID identifies an account in every store.
type AccountID string

// NewAccountID returns a random (v4) account identifier.
func NewAccountID() AccountID {
	return AccountID(uuid.NewString())
}

// ParseAccountID validates s as a UUID and returns it in canonical form.
func ParseAccountID(s string) (AccountID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: account id %q: %v", util.ErrInvalidInput, s, err)
	}
	return AccountID(id.String()), nil
}

func (id AccountID) String() string {
	return string(id)
}
