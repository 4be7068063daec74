package core

// Action tags a history record with the mutation that produced it.
type Action string

const (
	ActionAgendaUpdated    Action = "agenda_updated"
	ActionContentCreated   Action = "content_created"
	ActionContentUpdated   Action = "content_updated"
	ActionContentDeleted   Action = "content_deleted"
	ActionBulkStatusChange Action = "bulk_status_change"
)

// HistoryLimit caps the number of retained history records.
const HistoryLimit = 100

// HistoryRecord is one entry of the rolling change log.
type HistoryRecord struct {
	Timestamp string `json:"fecha"`
	Action    Action `json:"accion"`
	Summary   string `json:"detalle"`
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
}

// Requester carries opaque transport metadata about who asked for a
// mutation. The core does not interpret it.
type Requester struct {
	IP        string
	UserAgent string
}
