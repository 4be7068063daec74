// Package core holds the agenda domain: the document model, the statistics
// and filter engines, and the mutation service that ties them to storage.
package core

// TimeLayout is the timestamp format used across the document, the history
// log and the HTTP responses. It matches the wire format of the data file.
const TimeLayout = "2006-01-02 15:04:05"

// Content status values. An empty status means "no status yet" and is
// reported under StatusUnset.
const (
	StatusPending    = "pendiente"
	StatusInProgress = "en-progreso"
	StatusCompleted  = "completado"
	StatusPaused     = "pausado"
	StatusExcluded   = "no-incluir"

	// StatusUnset is the reporting bucket for items without a status.
	// It never appears on an item itself.
	StatusUnset = "sin-estado"
)

// KnownStatuses lists the named statuses in reporting order.
var KnownStatuses = []string{
	StatusPending,
	StatusInProgress,
	StatusCompleted,
	StatusPaused,
	StatusExcluded,
}

// Sustainability pillars a content item can be tagged with.
const (
	PillarGovernance     = "gobernanza"
	PillarCulture        = "cultura"
	PillarAcademy        = "academia"
	PillarCampus         = "campus"
	PillarOutreach       = "vinculacion"
	PillarResponsibility = "responsabilidad"

	// PillarUntagged is the reporting bucket for items without pillars.
	PillarUntagged = "sin-etiqueta"
)

// KnownPillars lists the pillars in reporting order.
var KnownPillars = []string{
	PillarGovernance,
	PillarCulture,
	PillarAcademy,
	PillarCampus,
	PillarOutreach,
	PillarResponsibility,
}

// Document is the root entity: a weekly planning agenda persisted as a
// single JSON file. Weeks is never nil after a successful Load.
type Document struct {
	Title    string `json:"titulo"`
	Period   string `json:"periodo"`
	Version  string `json:"version,omitempty"`
	Modified string `json:"fechaModificacion,omitempty"`
	Weeks    []Week `json:"semanas"`
}

// Week groups the content items planned for one week. Number is assumed
// unique within the document; lookups match on it, not on position.
type Week struct {
	Number   int           `json:"numero"`
	Dates    string        `json:"fechas"`
	Topic    string        `json:"tema"`
	Contents []ContentItem `json:"contenidos"`
}

// ContentItem is a single planned activity or material inside a week.
type ContentItem struct {
	ID         string   `json:"id"`
	Title      string   `json:"titulo"`
	Type       string   `json:"tipo"`
	Resources  string   `json:"recursos"`
	Status     string   `json:"estado"`
	Pillars    []string `json:"pilares"`
	Comments   string   `json:"comentarios"`
	Attachment string   `json:"adjunto"`
	Created    string   `json:"fechaCreacion,omitempty"`
	Modified   string   `json:"fechaModificacion,omitempty"`
}

// Excluded reports whether the item is intentionally skipped and should not
// count towards progress or pillar distributions.
func (c ContentItem) Excluded() bool {
	return c.Status == StatusExcluded
}

// FindWeek returns a pointer to the first week with the given number.
func (d *Document) FindWeek(number int) *Week {
	for i := range d.Weeks {
		if d.Weeks[i].Number == number {
			return &d.Weeks[i]
		}
	}
	return nil
}

// FindContent returns pointers to the first item with the given id and its
// owning week. First match wins when ids collide.
func (d *Document) FindContent(id string) (*ContentItem, *Week) {
	for i := range d.Weeks {
		w := &d.Weeks[i]
		for j := range w.Contents {
			if w.Contents[j].ID == id {
				return &w.Contents[j], w
			}
		}
	}
	return nil, nil
}

// TotalContents counts every item across all weeks.
func (d *Document) TotalContents() int {
	n := 0
	for _, w := range d.Weeks {
		n += len(w.Contents)
	}
	return n
}

// EventType classifies an external change to the backing document file.
type EventType string

const (
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event signals that the document file changed outside this process. It is
// how the accepted last-writer-wins hazard is surfaced to operators.
type Event struct {
	Type      EventType
	Path      string
	Timestamp int64 // Unix timestamp
}
