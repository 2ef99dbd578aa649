package util

const DateFormat = "2006-01-02"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// gin.Context 中的键
const (
	RequestIDKey = "request_id"
	UserKey      = "user"
	SessionKey   = "session_id"
)

const SnapshotContentType = "application/json"
