package domain

import "fmt"

// Kind is the type of a remote item.
type Kind string

const (
	KindDocument Kind = "document"
	KindFolder   Kind = "folder"
)

// NoLabel marks a descriptor discovered directly under the root folder.
const NoLabel = ""

// ItemDescriptor identifies one remote item.
// Name is the remote original and is never rewritten; Label holds the
// immediate parent folder's name when the item lives below the root.
type ItemDescriptor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Kind  Kind   `json:"kind"`
	Label string `json:"label,omitempty"`
}

// DisplayName returns the name used for sorting and headings.
func (d ItemDescriptor) DisplayName() string {
	if d.Label == NoLabel {
		return d.Name
	}
	return fmt.Sprintf("%s [%s]", d.Name, d.Label)
}

// WithLabel returns a copy of d carrying the given parent label.
func (d ItemDescriptor) WithLabel(label string) ItemDescriptor {
	d.Label = label
	return d
}
