package consts

// Database table names.
const (
	DBDownloads = "downloads"
)

// Download table columns.
const (
	QDLID         = "id"
	QDLURL        = "url"
	QDLTool       = "tool"
	QDLPhase      = "phase"
	QDLClient     = "client"
	QDLQuality    = "quality"
	QDLStatus     = "status"
	QDLPct        = "percent"
	QDLReason     = "reason"
	QDLError      = "error"
	QDLStartedAt  = "started_at"
	QDLFinishedAt = "finished_at"
)
