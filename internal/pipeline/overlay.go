package pipeline

// Correction records a proposed or applied change to one loan field,
// produced by stages that compare extracted values against the system of
// record. Applied is true only when the write actually happened, which
// requires apply mode.
type Correction struct {
	Field         string `json:"field"`
	Proposed      string `json:"proposed"`
	Authoritative string `json:"authoritative"`
	Reason        string `json:"reason,omitempty"`
	Applied       bool   `json:"applied"`
}

// Overlay maps field identifiers to their resolved reporting values. It
// exists only transiently for downstream reporting and is never written
// back to the system of record.
type Overlay map[string]string

// Reconcile merges authoritative field values with unapplied corrections
// into the view that would exist had every correction been written. A
// correction overlays its target field only; fields without one pass
// through unchanged; applied corrections defer to the authoritative value.
// Pure and referentially consistent: neither input is mutated, and
// identical inputs always produce an identical overlay, however many times
// downstream consumers invoke it.
func Reconcile(authoritative map[string]string, corrections []Correction) Overlay {
	overlay := make(Overlay, len(authoritative)+len(corrections))

	for field, value := range authoritative {
		overlay[field] = value
	}

	for _, c := range corrections {
		if c.Applied {
			// already reflected remotely; keep the snapshot value, falling
			// back to the record when the snapshot predates the field
			if _, ok := overlay[c.Field]; !ok {
				overlay[c.Field] = c.Authoritative
			}
			continue
		}
		overlay[c.Field] = c.Proposed
	}

	return overlay
}
