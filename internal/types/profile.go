package types

import (
	"fmt"
	"strings"
)

// AWSProfile holds the credential and region values of a named or inline
// profile. Any field may be empty.
type AWSProfile struct {
	Key    string `mapstructure:"key" json:"-"`
	KeyID  string `mapstructure:"keyid" json:"keyid,omitempty"`
	Region string `mapstructure:"region" json:"region,omitempty"`
}

type ProfileKind int

const (
	ProfileNone ProfileKind = iota
	ProfileNamed
	ProfileInline
)

// ProfileRef points at the AWS profile used to build the queue client: a name
// looked up in the process-wide profile table, an inline profile, or nothing.
type ProfileRef struct {
	kind   ProfileKind
	name   string
	inline AWSProfile
}

func NoProfile() ProfileRef {
	return ProfileRef{kind: ProfileNone}
}

func NamedProfile(name string) ProfileRef {
	return ProfileRef{kind: ProfileNamed, name: name}
}

func InlineProfile(p AWSProfile) ProfileRef {
	return ProfileRef{kind: ProfileInline, inline: p}
}

func (p ProfileRef) Kind() ProfileKind {
	return p.kind
}

func (p ProfileRef) Name() string {
	return p.name
}

func (p ProfileRef) Inline() AWSProfile {
	return p.inline
}

func (p ProfileRef) String() string {
	switch p.kind {
	case ProfileNamed:
		return fmt.Sprintf("named(%s)", p.name)
	case ProfileInline:
		return "inline"
	default:
		return "none"
	}
}

// LookupProfile finds a named profile. Configuration keys are lower-cased by
// the loader, so a case-insensitive match is tried after the exact one.
func LookupProfile(profiles map[string]AWSProfile, name string) (AWSProfile, bool) {
	if p, ok := profiles[name]; ok {
		return p, true
	}
	for k, p := range profiles {
		if strings.EqualFold(k, name) {
			return p, true
		}
	}
	return AWSProfile{}, false
}
