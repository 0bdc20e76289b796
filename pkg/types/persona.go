// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Persona is one fixed simulated-listener profile. The feedback phase
// plays the draft outline against each persona to surface blind spots
// before the manuscript is written.
type Persona struct {
	// Name is the persona's display name, e.g. "김집사".
	Name string `json:"name" yaml:"name"`

	// Age is a rough age band, e.g. "50대".
	Age string `json:"age" yaml:"age"`

	// Role describes the persona's place in the congregation.
	Role string `json:"role" yaml:"role"`

	// Profile is a short free-text description of how this listener
	// hears a sermon: concerns, vocabulary, resistances.
	Profile string `json:"profile" yaml:"profile"`
}
