package openwebui

// LocalFile describes one supported file found under the scan root.
// Rebuilt by every run; never persisted.
type LocalFile struct {
	// RelPath is the slash-separated path relative to the scan root.
	RelPath string
	// AbsPath is the absolute path on disk, used for uploads.
	AbsPath string
	// Hash is the lowercase hex SHA-256 of the file content.
	Hash string
}

// Collection is a named remote grouping of files.
type Collection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CollectionDetail is the per-collection view returned by the detail
// endpoint, including the ids of files currently attached.
type CollectionDetail struct {
	Collection
	FileIDs []string
}

// RemoteFile is a file known to the remote service. ID is the
// authoritative identity; Filename is only a best-effort match key
// against local basenames.
type RemoteFile struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

// createCollectionRequest is the payload for POST /api/knowledge.
type createCollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// attachFileRequest is the payload for POST /api/knowledge/{id}/files.
type attachFileRequest struct {
	FileID string `json:"file_id"`
}

// apiError is the error body shape the service returns on failures.
type apiError struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}
