package session

import (
	"encoding/base64"
	"fmt"
)

// Roles, as the backend names them.
const (
	RoleAdmin   = "ROLE_ADMIN"
	RoleStudent = "ROLE_STUDENT"
)

// UnknownID identifies a Principal synthesized without the profile endpoint.
const UnknownID = "unknown"

// fallbackRoles maps the known test accounts to their roles when GET /users/me is unavailable.
// It is a placeholder, not an identity system: do not add entries.
var fallbackRoles = map[string][]string{
	"adminuser":   {RoleAdmin},
	"studentuser": {RoleStudent},
}

// inferRoles returns the fallback roles for username. Unlisted usernames get the least privileged role.
func inferRoles(username string) []string {
	if roles, ok := fallbackRoles[username]; ok {
		return append([]string(nil), roles...)
	}
	return []string{RoleStudent}
}

// Principal is the resolved identity of the logged-in user.
type Principal struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool   { return p.HasRole(RoleAdmin) }
func (p Principal) IsStudent() bool { return p.HasRole(RoleStudent) }

// IsFallback reports whether p was synthesized from the username instead of fetched.
func (p Principal) IsFallback() bool { return p.ID == UnknownID }

func (p Principal) valid() bool {
	return p.ID != "" && p.Username != "" && len(p.Roles) > 0
}

func fallbackPrincipal(username string) Principal {
	return Principal{
		ID:       UnknownID,
		Username: username,
		Roles:    inferRoles(username),
	}
}

// Credential is the username/secret pair the Authorization header is rebuilt from.
type Credential struct {
	Username string `json:"u"`
	Secret   string `json:"p"`
}

// AuthorizationHeader returns the value of the Basic Authorization header.
func (c Credential) AuthorizationHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.Username+":"+c.Secret))
}

func (c Credential) String() string {
	return fmt.Sprintf("Credential{Username: %q, Secret: <redacted>}", c.Username)
}

func (c Credential) GoString() string { return c.String() }
