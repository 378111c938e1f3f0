// Package shell prints the environment changes that activate a JDK and
// wires "jvman activate" into the user's shell startup file.
//
// Supported shells are bash, zsh and fish. Startup file edits are
// idempotent and go through a temp file and rename:
//
//	# ~/.bashrc
//	eval "$(jvman activate bash)"
//
//	# ~/.config/fish/config.fish
//	jvman activate fish | source
package shell
