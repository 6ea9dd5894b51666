package model

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// StatusRecord is the durable per-target processing state. An item ID
// appears in at most one of the three sets; Normalize enforces that with
// priority completed > failed > skipped.
type StatusRecord struct {
	Completed  []string `json:"completed"`
	Failed     []string `json:"failed"`
	Skipped    []string `json:"skipped"`
	LastUpdate string   `json:"last_update,omitempty"`
}

func NewStatusRecord() *StatusRecord {
	return &StatusRecord{
		Completed: []string{},
		Failed:    []string{},
		Skipped:   []string{},
	}
}

func (r *StatusRecord) IsCompleted(id string) bool {
	return contains(r.Completed, id)
}

func (r *StatusRecord) IsFailed(id string) bool {
	return contains(r.Failed, id)
}

func (r *StatusRecord) IsSkipped(id string) bool {
	return contains(r.Skipped, id)
}

// MarkCompleted records a terminal success and removes the ID from the
// other sets so a retried failure does not stay failed forever.
func (r *StatusRecord) MarkCompleted(id string) {
	r.Failed = remove(r.Failed, id)
	r.Skipped = remove(r.Skipped, id)
	if !contains(r.Completed, id) {
		r.Completed = append(r.Completed, id)
	}
}

// MarkFailed records a failure. A completed item never regresses to
// failed.
func (r *StatusRecord) MarkFailed(id string) {
	if contains(r.Completed, id) {
		return
	}
	r.Skipped = remove(r.Skipped, id)
	if !contains(r.Failed, id) {
		r.Failed = append(r.Failed, id)
	}
}

// MarkSkipped records an item deliberately not attempted (e.g. filtered
// member-only content). Completed and failed take precedence.
func (r *StatusRecord) MarkSkipped(id string) {
	if contains(r.Completed, id) || contains(r.Failed, id) {
		return
	}
	if !contains(r.Skipped, id) {
		r.Skipped = append(r.Skipped, id)
	}
}

// Normalize repairs a record loaded from disk: missing sets become empty,
// duplicates collapse keeping first occurrence, and IDs present in more
// than one set keep only their highest-priority membership.
func (r *StatusRecord) Normalize() {
	r.Completed = dedupe(r.Completed)
	r.Failed = dedupe(r.Failed)
	r.Skipped = dedupe(r.Skipped)

	completed := toSet(r.Completed)
	r.Failed = rejectSet(r.Failed, completed)
	failed := toSet(r.Failed)
	r.Skipped = rejectSet(r.Skipped, completed)
	r.Skipped = rejectSet(r.Skipped, failed)

	if r.Completed == nil {
		r.Completed = []string{}
	}
	if r.Failed == nil {
		r.Failed = []string{}
	}
	if r.Skipped == nil {
		r.Skipped = []string{}
	}
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func remove(list []string, id string) []string {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func toSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, v := range list {
		set[v] = true
	}
	return set
}

func rejectSet(list []string, drop map[string]bool) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if !drop[v] {
			out = append(out, v)
		}
	}
	return out
}
