package domain

import "strings"

// Identity is the stable key that owns a conversation window and chat log.
// The zero value is the anonymous identity.
type Identity string

// Anonymous is the identity of callers that did not authenticate.
const Anonymous Identity = ""

// ParseIdentity trims surrounding whitespace. A blank input is Anonymous.
func ParseIdentity(s string) Identity {
	return Identity(strings.TrimSpace(s))
}

// IsAnonymous reports whether the identity takes no part in history.
func (id Identity) IsAnonymous() bool {
	return id == Anonymous
}

func (id Identity) String() string {
	if id.IsAnonymous() {
		return "anonymous"
	}
	return string(id)
}
