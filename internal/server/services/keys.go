package services

// Key construction for the metadata store. Composite keys concatenate a
// fixed domain prefix, a ':' separator and one or more identifier segments;
// prefix scans over these keys are the only indexing mechanism the store
// offers, so every lookup path below corresponds to one key family here.
const (
	filePrefix         = "file:"
	userFilesPrefix    = "user_files:"
	insightsPrefix     = "insights:"
	fileInsightsPrefix = "file_insights:"
)

// fileKey is the canonical key of a FileRecord.
func fileKey(fileID string) string {
	return filePrefix + fileID
}

// userFileKey is the per-owner secondary index entry for a file.
func userFileKey(userID, fileID string) string {
	return userFilesPrefix + userID + ":" + fileID
}

// userFilesScanPrefix is the scan entry point for "list files of user".
func userFilesScanPrefix(userID string) string {
	return userFilesPrefix + userID + ":"
}

// insightKey is the canonical key of an InsightRecord. Canonical records
// accumulate across regenerations and are not scanned.
func insightKey(insightID string) string {
	return insightsPrefix + insightID
}

// fileInsightsKey is the per-file lookup key holding the current insight
// record; each regeneration overwrites it.
func fileInsightsKey(fileID string) string {
	return fileInsightsPrefix + fileID
}
