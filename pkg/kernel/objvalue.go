package kernel

import (
	"net/mail"
	"strings"
)

type Email string

// Normalize trims and lower-cases the address
func (e Email) Normalize() Email {
	return Email(strings.ToLower(strings.TrimSpace(string(e))))
}

// IsValid checks for a single bare address, no display name
func (e Email) IsValid() bool {
	s := strings.TrimSpace(string(e))
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s
}

func (e Email) String() string { return string(e) }

// StoragePath is a key inside the configured file system
type StoragePath string

func (p StoragePath) String() string { return string(p) }
func (p StoragePath) IsEmpty() bool  { return string(p) == "" }
