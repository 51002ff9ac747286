package servers

import (
	"encoding/json"
)

// Directory is one fetched server list, entries still in wire form.
type Directory []json.RawMessage

// Len returns the number of entries in the list.
func (d Directory) Len() int {
	return len(d)
}

// Locate returns the first descriptor whose name equals name exactly.
// Entries that cannot be read as an object with a string name are skipped.
// A match missing required fields is a *DescriptorError; later entries with
// the same name are not consulted.
func (d Directory) Locate(name string) (*ServerDescriptor, error) {
	for _, raw := range d {
		var probe struct {
			Name *string `json:"name"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil || probe.Name == nil {
			continue
		}
		if *probe.Name != name {
			continue
		}

		var wire wireDescriptor
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, &DescriptorError{Name: name, Err: err}
		}
		desc, err := wire.descriptor()
		if err != nil {
			return nil, &DescriptorError{Name: name, Err: err}
		}
		return desc, nil
	}

	return nil, ErrServerNotFound
}
