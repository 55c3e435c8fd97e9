package session

// Store persists the session across restarts: exactly one Principal and one Credential slot.
// Only the Manager writes to it.
type Store interface {
	// SavePrincipal overwrites the Principal slot.
	SavePrincipal(p Principal) error
	// SaveCredential overwrites the Credential slot.
	SaveCredential(c Credential) error
	// Load returns the last saved Principal and, if any, the saved Credential.
	// ok is false when no Principal is stored. A slot that cannot be read back clears the whole
	// Store and is reported as absent; read errors are never returned.
	Load() (p Principal, c *Credential, ok bool)
	// Clear removes both slots.
	Clear() error
}
