package credential

import (
	"time"

	"github.com/google/uuid"
)

const ProviderGemini = "gemini"

// Credential holds an account's upstream model API key, encrypted at rest.
type Credential struct {
	ID           uuid.UUID `db:"id"`
	AccountID    uuid.UUID `db:"account_id"`
	Provider     string    `db:"provider"`
	KeyEncrypted string    `db:"api_key_encrypted"`
	IsValid      bool      `db:"is_valid"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
