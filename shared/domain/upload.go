package domain

// UploadResult describes a file stored by the upload proxy.
type UploadResult struct {
	FileName    string
	FileLink    string // storage path
	FileViewURL string
}
