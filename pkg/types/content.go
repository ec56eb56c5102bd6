package types

// ContentType is a coarse classification of a file used for routing
type ContentType string

const (
	ContentVideo   ContentType = "video"
	ContentAudio   ContentType = "audio"
	ContentImage   ContentType = "image"
	ContentText    ContentType = "text"
	ContentArchive ContentType = "archive"
	ContentUnknown ContentType = "unknown"
)

// AllContentTypes lists every classification, in display order
var AllContentTypes = []ContentType{
	ContentVideo,
	ContentAudio,
	ContentImage,
	ContentText,
	ContentArchive,
	ContentUnknown,
}

// ParseContentType converts a configuration string into a ContentType
func ParseContentType(s string) (ContentType, bool) {
	for _, ct := range AllContentTypes {
		if string(ct) == s {
			return ct, true
		}
	}
	return "", false
}
