package dom

// ElementState is a point-in-time view of one selector.
type ElementState struct {
	Selector      string `json:"selector" yaml:"selector"`
	Present       bool   `json:"present" yaml:"present"`
	Visible       bool   `json:"visible" yaml:"visible"`
	Value         string `json:"value,omitempty" yaml:"value,omitempty"`
	SelectedIndex int    `json:"selectedIndex" yaml:"selectedIndex"`
}

// Snapshot captures the state of each selector in the order given.
func (d *Document) Snapshot(selectors ...string) []ElementState {
	out := make([]ElementState, 0, len(selectors))
	for _, selector := range selectors {
		sel := d.Find(selector)
		out = append(out, ElementState{
			Selector:      selector,
			Present:       !sel.Empty(),
			Visible:       sel.Visible(),
			Value:         sel.Value(),
			SelectedIndex: sel.SelectedIndex(),
		})
	}
	return out
}
