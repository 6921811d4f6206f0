// Package gating decides what the terminal UI may show and accept for a
// given session snapshot. It holds no state of its own.
package gating

import "github.com/cpphub/hubclient/internal/client/session"

type Modal int

const (
	ModalNone Modal = iota
	ModalVerification
	ModalBan
)

func (m Modal) String() string {
	switch m {
	case ModalVerification:
		return "verification"
	case ModalBan:
		return "ban"
	default:
		return "none"
	}
}

// Decision is the presentation state for one snapshot.
type Decision struct {
	Modal Modal
	// Inert is true while a modal is shown: content stays loaded but does
	// not accept input.
	Inert bool
}

// Decide picks the modal for snap. The ban modal wins over verification.
func Decide(snap session.Snapshot) Decision {
	switch {
	case snap.Flags.ShowBan:
		return Decision{Modal: ModalBan, Inert: true}
	case snap.Flags.ShowVerification:
		return Decision{Modal: ModalVerification, Inert: true}
	default:
		return Decision{Modal: ModalNone}
	}
}

var (
	// always are accepted under any modal.
	always = map[string]bool{
		"help":   true,
		"exit":   true,
		"quit":   true,
		"logout": true,
		"whoami": true,
	}
	verification = map[string]bool{
		"resend":       true,
		"verify-email": true,
	}
)

// Allows reports whether cmd may run under d.
func (d Decision) Allows(cmd string) bool {
	if !d.Inert || always[cmd] {
		return true
	}
	return d.Modal == ModalVerification && verification[cmd]
}
