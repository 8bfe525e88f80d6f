package profile

import (
	"slices"
	"time"
)

// DefaultName is the name of the profile used when no file is configured
const DefaultName = "default"

// Profile grants a group of chats and users access to the bot, with its
// own polling period and notification style.
type Profile struct {
	Name           string
	AllowedChatIDs []int64
	AllowedUserIDs []int64

	// CheckInterval overrides the watcher's period when positive
	CheckInterval time.Duration

	// SilentNotifications delivers ticket alerts without sound
	SilentNotifications bool

	// open authorizes everyone
	open bool
}

// Open reports whether the profile authorizes everyone
func (p *Profile) Open() bool {
	return p.open
}

// Set is an ordered list of profiles
type Set struct {
	profiles []*Profile
}

// NewSet builds a set from profiles, in lookup order
func NewSet(profiles ...*Profile) *Set {
	return &Set{profiles: profiles}
}

// Default returns a set with a single profile authorizing everyone
func Default() *Set {
	return NewSet(&Profile{Name: DefaultName, open: true})
}

// Lookup returns the first profile that lists the chat, or else the user.
// Profiles are tried in order; within a profile the chat is checked first.
func (s *Set) Lookup(chatID, userID int64) (*Profile, bool) {
	for _, p := range s.profiles {
		if p.open || slices.Contains(p.AllowedChatIDs, chatID) {
			return p, true
		}
		if slices.Contains(p.AllowedUserIDs, userID) {
			return p, true
		}
	}
	return nil, false
}

// Len returns the number of profiles
func (s *Set) Len() int {
	return len(s.profiles)
}
