package marketing

// Sections in document order.
var Sections = []string{"home", "services", "technologies", "process", "contact"}

const (
	DefaultSection      = "home"
	ActivationThreshold = 120
)

// ActiveSection returns the last section, in document order, whose top edge
// is at or above threshold pixels from the viewport top. tops holds the
// current viewport offsets by section id; missing sections are skipped.
func ActiveSection(tops map[string]float64, threshold float64) string {
	current := DefaultSection
	for _, id := range Sections {
		top, ok := tops[id]
		if !ok {
			continue
		}
		if top <= threshold {
			current = id
		}
	}
	return current
}
