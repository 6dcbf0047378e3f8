package platform

import "github.com/aretw0/introspection"

// NotebookState aggregates the state of every component.
type NotebookState struct {
	Transport   any    `json:"transport"`
	Session     any    `json:"session"`
	Collection  any    `json:"collection"`
	Credentials any    `json:"credentials,omitempty"`
	SessionFile string `json:"session_file,omitempty"`
}

// State implements introspection.Introspectable.
func (n *Notebook) State() any {
	state := NotebookState{
		Transport:   n.client.State(),
		Session:     n.session.State(),
		Collection:  n.notes.State(),
		SessionFile: n.sessionFile,
	}
	if in, ok := n.credentials.(introspection.Introspectable); ok {
		state.Credentials = in.State()
	}
	return state
}

// ComponentType implements introspection.Component.
func (n *Notebook) ComponentType() string {
	return "notebook"
}

var _ introspection.Introspectable = (*Notebook)(nil)
var _ introspection.Component = (*Notebook)(nil)
