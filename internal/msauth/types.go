package msauth

import (
	"fmt"
	"strings"
)

// Credential identifies the delegated mailbox identity. All four fields
// are required; the value is supplied once per process and treated as
// immutable for the run.
type Credential struct {
	// ClientID is the Azure AD application (client) identifier.
	ClientID string

	// TenantID selects the authority https://login.microsoftonline.com/{tenant}.
	TenantID string

	// Username is the subject identity (an email address).
	Username string

	// Password for the ROPC exchange.
	Password string
}

// Validate reports which required fields are empty.
func (c Credential) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "client id")
	}
	if c.TenantID == "" {
		missing = append(missing, "tenant id")
	}
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("credential is missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Authority returns the identity provider endpoint for the credential's tenant.
func (c Credential) Authority() string {
	return "https://login.microsoftonline.com/" + c.TenantID
}

// AuthError represents a failure to obtain a usable access token.
// Neither the silent path nor the ROPC exchange yielded one; nothing
// downstream can proceed, so callers must abort the traversal.
type AuthError struct {
	// Op is the acquisition step that failed (e.g. "acquire", "ropc")
	Op string

	// Username is the subject identity the acquisition was for
	Username string

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Username != "" {
		return fmt.Sprintf("msauth %s (user: %s): %v", e.Op, e.Username, e.Err)
	}
	return fmt.Sprintf("msauth %s: %v", e.Op, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *AuthError) Unwrap() error {
	return e.Err
}
