package common

// AccessTokenHeaderName is the HTTP header used to carry the bearer access
// token on inbound requests.
const AccessTokenHeaderName = "Authorization"

// MaxUploadSizeBytes is the fixed ceiling for a single spreadsheet upload.
const MaxUploadSizeBytes = 10 << 20 // 10 MiB
