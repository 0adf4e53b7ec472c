package commands

import (
	"encoding/base64"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
)

// RunCreateRootSecret generates a 32-byte root secret from rnd and prints it
// base64-encoded, ready for ROOT_SECRET. The raw bytes are zeroed after encoding.
//
// Every key version is derived from this value: losing it makes every record
// unreadable, leaking it exposes every key version.
func RunCreateRootSecret(rnd io.Reader, w io.Writer, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	secret := make([]byte, cryptoDomain.RootSecretSize)
	defer cryptoDomain.Zero(secret)

	if _, err := io.ReadFull(rnd, secret); err != nil {
		return fmt.Errorf("failed to generate root secret: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(secret)

	if format == "json" {
		return writeJSON(w, map[string]string{"root_secret": encoded})
	}

	_, err := fmt.Fprintf(w, "# Store this value in a secret manager; it is never shown again.\nROOT_SECRET=\"%s\"\n", encoded)
	return err
}
