// Package config loads and merges the TOML policy document that parameterizes
// the registry: an embedded default, overlaid by an optional user file.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed defaults/default.toml
var embeddedDefault []byte

// CommandsSection configures the flat allow/ask/deny basename and path
// tables consulted by SimpleSpec.
type CommandsSection struct {
	Allow []string `toml:"allow"`
	Ask   []string `toml:"ask"`
	Deny  []string `toml:"deny"`

	RemoveAllow []string `toml:"remove_allow"`
	RemoveAsk   []string `toml:"remove_ask"`
	RemoveDeny  []string `toml:"remove_deny"`

	Replace bool `toml:"replace"`
}

// WrappersSection configures which wrapper commands impose an Allow floor
// versus an Ask floor on their payload.
type WrappersSection struct {
	AllowFloor []string `toml:"allow_floor"`
	AskFloor   []string `toml:"ask_floor"`

	RemoveAllowFloor []string `toml:"remove_allow_floor"`
	RemoveAskFloor   []string `toml:"remove_ask_floor"`

	Replace bool `toml:"replace"`
}

// SubcommandToolSection configures one of the subcommand-dispatching tools
// (git, cargo, kubectl, gh).
type SubcommandToolSection struct {
	ReadOnly          []string `toml:"read_only"`
	Mutating          []string `toml:"mutating"`
	AllowedWithConfig []string `toml:"allowed_with_config"`
	ConfigEnvVar      string   `toml:"config_env_var"`
	// ForcePushFlags names flags that force an Ask on "push" regardless of
	// AllowedWithConfig's env-gate. Only git populates this in practice.
	ForcePushFlags []string `toml:"force_push_flags"`

	RemoveReadOnly          []string `toml:"remove_read_only"`
	RemoveMutating          []string `toml:"remove_mutating"`
	RemoveAllowedWithConfig []string `toml:"remove_allowed_with_config"`
	RemoveForcePushFlags    []string `toml:"remove_force_push_flags"`

	Replace bool `toml:"replace"`
}

// Document is the full effective configuration: the shape of the TOML file,
// after the embedded default has been merged with any user overlay.
type Document struct {
	Commands CommandsSection       `toml:"commands"`
	Wrappers WrappersSection       `toml:"wrappers"`
	Git      SubcommandToolSection `toml:"git"`
	Cargo    SubcommandToolSection `toml:"cargo"`
	Kubectl  SubcommandToolSection `toml:"kubectl"`
	Gh       SubcommandToolSection `toml:"gh"`
}

// LoadError wraps a failure to parse a configuration document; callers
// should fall back to defaults rather than propagate it as a transport error.
type LoadError struct {
	Path    string
	Message string
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Default parses the embedded default policy document. It never fails at
// runtime — a failure here is a packaging bug caught by tests.
func Default() (Document, error) {
	var doc Document
	if _, err := toml.NewDecoder(bytes.NewReader(embeddedDefault)).Decode(&doc); err != nil {
		return Document{}, &LoadError{Message: "embedded default.toml is invalid: " + err.Error()}
	}
	return doc, nil
}

// LoadOverlay reads and parses a user configuration file. A missing file is
// not an error — it just means there is no overlay to apply.
func LoadOverlay(path string) (Document, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, false, nil
		}
		return Document{}, false, &LoadError{Path: path, Message: err.Error()}
	}

	var doc Document
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return Document{}, false, &LoadError{Path: path, Message: "invalid TOML: " + err.Error()}
	}
	return doc, true, nil
}

// Effective loads the embedded default, then overlays the user file at path
// (if present). A malformed overlay degrades to the default document with
// the error returned for the caller to log — per the ConfigInvalid error
// class, this must never abort startup.
func Effective(path string) (Document, error) {
	base, err := Default()
	if err != nil {
		return Document{}, err
	}
	if path == "" {
		return base, nil
	}
	overlay, found, err := LoadOverlay(path)
	if err != nil {
		return base, err
	}
	if !found {
		return base, nil
	}
	return Merge(base, overlay), nil
}

// Merge combines base with a user overlay per the registry's merge rules:
// list fields union (first-seen order preserved), remove_<field> subtracts
// from the union, scalar fields take the overlay's value when non-empty, and
// replace=true makes the overlay wholly replace the base section before any
// remove_ rule is applied.
func Merge(base, overlay Document) Document {
	return Document{
		Commands: mergeCommands(base.Commands, overlay.Commands),
		Wrappers: mergeWrappers(base.Wrappers, overlay.Wrappers),
		Git:      mergeSubcommandTool(base.Git, overlay.Git),
		Cargo:    mergeSubcommandTool(base.Cargo, overlay.Cargo),
		Kubectl:  mergeSubcommandTool(base.Kubectl, overlay.Kubectl),
		Gh:       mergeSubcommandTool(base.Gh, overlay.Gh),
	}
}

func mergeCommands(base, overlay CommandsSection) CommandsSection {
	baseAllow, baseAsk, baseDeny := base.Allow, base.Ask, base.Deny
	if overlay.Replace {
		baseAllow, baseAsk, baseDeny = nil, nil, nil
	}
	return CommandsSection{
		Allow: unionMinus(baseAllow, overlay.Allow, overlay.RemoveAllow),
		Ask:   unionMinus(baseAsk, overlay.Ask, overlay.RemoveAsk),
		Deny:  unionMinus(baseDeny, overlay.Deny, overlay.RemoveDeny),
	}
}

func mergeWrappers(base, overlay WrappersSection) WrappersSection {
	baseAllowFloor, baseAskFloor := base.AllowFloor, base.AskFloor
	if overlay.Replace {
		baseAllowFloor, baseAskFloor = nil, nil
	}
	return WrappersSection{
		AllowFloor: unionMinus(baseAllowFloor, overlay.AllowFloor, overlay.RemoveAllowFloor),
		AskFloor:   unionMinus(baseAskFloor, overlay.AskFloor, overlay.RemoveAskFloor),
	}
}

func mergeSubcommandTool(base, overlay SubcommandToolSection) SubcommandToolSection {
	baseReadOnly, baseMutating, baseAllowedWithConfig, baseForcePushFlags := base.ReadOnly, base.Mutating, base.AllowedWithConfig, base.ForcePushFlags
	if overlay.Replace {
		baseReadOnly, baseMutating, baseAllowedWithConfig, baseForcePushFlags = nil, nil, nil, nil
	}
	configEnvVar := base.ConfigEnvVar
	if overlay.Replace || overlay.ConfigEnvVar != "" {
		configEnvVar = overlay.ConfigEnvVar
	}
	return SubcommandToolSection{
		ReadOnly:          unionMinus(baseReadOnly, overlay.ReadOnly, overlay.RemoveReadOnly),
		Mutating:          unionMinus(baseMutating, overlay.Mutating, overlay.RemoveMutating),
		AllowedWithConfig: unionMinus(baseAllowedWithConfig, overlay.AllowedWithConfig, overlay.RemoveAllowedWithConfig),
		ConfigEnvVar:      configEnvVar,
		ForcePushFlags:    unionMinus(baseForcePushFlags, overlay.ForcePushFlags, overlay.RemoveForcePushFlags),
	}
}

// unionMinus computes (base ∪ add) \ remove, preserving first-seen order.
func unionMinus(base, add, remove []string) []string {
	removeSet := make(map[string]bool, len(remove))
	for _, r := range remove {
		removeSet[r] = true
	}

	seen := make(map[string]bool, len(base)+len(add))
	out := make([]string, 0, len(base)+len(add))
	for _, item := range base {
		if seen[item] || removeSet[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	for _, item := range add {
		if seen[item] || removeSet[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
