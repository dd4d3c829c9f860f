// Package domain contains conference entities without logic, just meta-data
package domain

import (
	"errors"
	"strings"
)

const MaxDisplayNameLen = 64

var (
	ErrEmptyURI           = errors.New("identity uri empty")
	ErrDisplayNameTooLong = errors.New("display name too long")
)

// Identity is the opaque URI/display-name pair of a call party.
type Identity struct {
	URI         string `json:"uri"`
	DisplayName string `json:"display_name,omitempty"`
}

// NewIdentity is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewIdentity(uri, displayName string) (Identity, error) {
	if uri == "" {
		return Identity{}, ErrEmptyURI
	}
	if len(displayName) > MaxDisplayNameLen {
		return Identity{}, ErrDisplayNameTooLong
	}
	return Identity{URI: uri, DisplayName: displayName}, nil
}

// Name is what the drawer shows: the display name, or the URI when there is none.
func (i Identity) Name() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.URI
}

// User is the URI part before '@'.
func (i Identity) User() string {
	user, _, _ := strings.Cut(i.URI, "@")
	return user
}

// IsGuest reports whether the identity lives on the guest domain.
func (i Identity) IsGuest(guestDomain string) bool {
	return guestDomain != "" && strings.HasSuffix(i.URI, guestDomain)
}

func (i Identity) String() string {
	if i.DisplayName == "" {
		return i.URI
	}
	return i.DisplayName + " <" + i.URI + ">"
}
