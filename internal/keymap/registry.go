// Package keymap maps key strings to commands per input context.
package keymap

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
)

// Binding maps a key to a command in a context.
type Binding struct {
	Key     string
	Command string
	Context string
}

// Registry holds the active bindings. User overrides replace the default
// binding for the same key and context.
type Registry struct {
	bindings []Binding
	index    map[string]map[string]string // context -> key -> command
	known    map[string]bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]map[string]string),
		known: make(map[string]bool),
	}
}

// RegisterDefaults adds DefaultBindings to r.
func RegisterDefaults(r *Registry) {
	r.RegisterBindings(DefaultBindings())
}

// RegisterBindings adds bindings, replacing any with the same key and context.
func (r *Registry) RegisterBindings(bindings []Binding) {
	for _, b := range bindings {
		r.set(b)
	}
}

func (r *Registry) set(b Binding) {
	for i, existing := range r.bindings {
		if existing.Key == b.Key && existing.Context == b.Context {
			r.bindings = append(r.bindings[:i], r.bindings[i+1:]...)
			break
		}
	}
	r.bindings = append(r.bindings, b)
	if r.index[b.Context] == nil {
		r.index[b.Context] = make(map[string]string)
	}
	r.index[b.Context][b.Key] = b.Command
	r.known[b.Command] = true
}

// SetUserOverride binds key to command. A key written as "context:key"
// only applies to that context; a plain key applies to every context the
// command already has a binding in, or to global if it has none. Plain
// text keys (one character, or space) never go to the global or search
// contexts, where they must reach the query; they fall back to browse.
func (r *Registry) SetUserOverride(keyStr, command string) {
	if ctx, k, ok := splitContext(keyStr); ok {
		r.set(Binding{Key: k, Command: command, Context: ctx})
		return
	}

	text := IsTextKey(keyStr)
	var contexts []string
	seen := make(map[string]bool)
	for _, b := range r.bindings {
		if b.Command != command || seen[b.Context] {
			continue
		}
		if text && (b.Context == ContextGlobal || b.Context == ContextSearch) {
			continue
		}
		seen[b.Context] = true
		contexts = append(contexts, b.Context)
	}
	if len(contexts) == 0 {
		contexts = []string{ContextGlobal}
		if text {
			contexts = []string{ContextBrowse}
		}
	}
	for _, ctx := range contexts {
		r.set(Binding{Key: keyStr, Command: command, Context: ctx})
	}
}

// IsTextKey reports whether keyStr types a character: a single rune or
// "space".
func IsTextKey(keyStr string) bool {
	return keyStr == "space" || keyStr == " " || utf8.RuneCountInString(keyStr) == 1
}

// ApplyOverrides applies a key -> command map from the config file.
// Overrides naming unknown commands are rejected.
func (r *Registry) ApplyOverrides(overrides map[string]string) error {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		cmd := overrides[k]
		if !r.known[cmd] {
			return fmt.Errorf("keymap override %q: unknown command %q", k, cmd)
		}
		r.SetUserOverride(k, cmd)
	}
	return nil
}

func splitContext(s string) (ctx, k string, ok bool) {
	i := strings.Index(s, ":")
	if i <= 0 || i == len(s)-1 {
		return "", s, false
	}
	switch ctx := s[:i]; ctx {
	case ContextGlobal, ContextBrowse, ContextSearch, ContextHelp:
		return ctx, s[i+1:], true
	}
	return "", s, false
}

// Lookup returns the command bound to key in context, falling back to the
// global context.
func (r *Registry) Lookup(keyStr, context string) (string, bool) {
	if cmd, ok := r.index[context][keyStr]; ok {
		return cmd, true
	}
	if cmd, ok := r.index[ContextGlobal][keyStr]; ok {
		return cmd, true
	}
	return "", false
}

// LookupIn returns the command bound to key in context only, without the
// global fallback.
func (r *Registry) LookupIn(keyStr, context string) (string, bool) {
	cmd, ok := r.index[context][keyStr]
	return cmd, ok
}

// BindingsForContext returns the bindings of one context in registration
// order.
func (r *Registry) BindingsForContext(context string) []Binding {
	var out []Binding
	for _, b := range r.bindings {
		if b.Context == context {
			out = append(out, b)
		}
	}
	return out
}

// KeysFor returns the keys bound to command in context.
func (r *Registry) KeysFor(command, context string) []string {
	var keys []string
	for _, b := range r.bindings {
		if b.Context == context && b.Command == command {
			keys = append(keys, b.Key)
		}
	}
	return keys
}

// HelpBindings converts the bindings of a context into bubbles key
// bindings, one per command, for the footer help view.
func (r *Registry) HelpBindings(context string, commands ...string) []key.Binding {
	var out []key.Binding
	for _, cmd := range commands {
		keys := r.KeysFor(cmd, context)
		if len(keys) == 0 {
			keys = r.KeysFor(cmd, ContextGlobal)
		}
		if len(keys) == 0 {
			continue
		}
		out = append(out, key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(FormatKeys(keys), Label(cmd)),
		))
	}
	return out
}

// FormatKeys joins alternative keys for display, e.g. "k/up".
func FormatKeys(keys []string) string {
	if len(keys) > 2 {
		keys = keys[:2]
	}
	return strings.Join(keys, "/")
}
