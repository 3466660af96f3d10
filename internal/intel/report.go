package intel

import (
	"bytes"
	"encoding/json"
)

// Report is the merged view of every dispatched module's outcome, keyed by
// module name in dispatch order. A module that failed still has its key; the
// value is an error object instead of a payload. Keys are unique per request
// so one module can never shadow another.
type Report struct {
	order    []string
	outcomes map[string]Outcome
}

// NewReport merges ordered outcomes into a report. Nothing is dropped or
// re-ordered: the key set is exactly the dispatched module set.
func NewReport(outcomes []Outcome) *Report {
	r := &Report{
		order:    make([]string, 0, len(outcomes)),
		outcomes: make(map[string]Outcome, len(outcomes)),
	}
	for _, o := range outcomes {
		if _, exists := r.outcomes[o.Module]; exists {
			continue
		}
		r.order = append(r.order, o.Module)
		r.outcomes[o.Module] = o
	}
	return r
}

// Modules returns the module names in dispatch order.
func (r *Report) Modules() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Outcome returns the outcome recorded for one module.
func (r *Report) Outcome(module string) (Outcome, bool) {
	o, ok := r.outcomes[module]
	return o, ok
}

// Payload returns the typed payload for a module that succeeded.
func (r *Report) Payload(module string) (Payload, bool) {
	o, ok := r.outcomes[module]
	if !ok || !o.OK() {
		return nil, false
	}
	return o.Payload, true
}

// Errors maps each failed module to its error message.
func (r *Report) Errors() map[string]string {
	errs := make(map[string]string)
	for _, name := range r.order {
		if o := r.outcomes[name]; !o.OK() {
			errs[name] = o.Err
		}
	}
	return errs
}

func (r *Report) Len() int {
	return len(r.order)
}

// MarshalJSON emits the namespaced result object with keys in dispatch
// order, not map order.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(r.outcomes[name])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
