package predicates

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/gabriel-vasile/mimetype"
)

// extensionTable maps lower-case extensions (without the dot) to content types
var extensionTable = buildExtensionTable(map[types.ContentType][]string{
	types.ContentVideo: {
		"3gp", "avi", "flv", "m2ts", "m4v", "mkv", "mov", "mp4", "mpeg", "mpg", "ogv", "webm", "wmv",
	},
	types.ContentAudio: {
		"aac", "aif", "aiff", "flac", "m4a", "mp3", "oga", "ogg", "opus", "wav", "wma",
	},
	types.ContentImage: {
		"bmp", "cr2", "gif", "heic", "heif", "ico", "jpeg", "jpg", "nef", "png", "svg", "tif", "tiff", "webp",
	},
	types.ContentText: {
		"csv", "htm", "html", "json", "log", "markdown", "md", "org", "rst", "srt", "toml", "tsv", "txt", "vtt", "xml", "yaml", "yml",
	},
	types.ContentArchive: {
		"7z", "bz2", "dmg", "gz", "iso", "rar", "tar", "tbz2", "tgz", "txz", "xz", "zip", "zst",
	},
})

// archiveMIMEs are the detected types treated as archives. Parents are not
// consulted: office documents are zip containers but not archives to a user.
var archiveMIMEs = []string{
	"application/zip",
	"application/gzip",
	"application/x-gzip",
	"application/x-tar",
	"application/x-7z-compressed",
	"application/x-rar-compressed",
	"application/vnd.rar",
	"application/x-bzip2",
	"application/x-xz",
	"application/zstd",
	"application/x-iso9660-image",
}

func buildExtensionTable(groups map[types.ContentType][]string) map[string]types.ContentType {
	table := make(map[string]types.ContentType)
	for ct, exts := range groups {
		for _, ext := range exts {
			table[ext] = ct
		}
	}
	return table
}

// ContentTypeByExtension classifies a file name using the extension table only
func ContentTypeByExtension(name string) types.ContentType {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ct, ok := extensionTable[ext]; ok {
		return ct
	}
	return types.ContentUnknown
}

// ContentTypeForMIME maps a detected MIME type onto a coarse content type
func ContentTypeForMIME(mime *mimetype.MIME) types.ContentType {
	if mime == nil {
		return types.ContentUnknown
	}
	for _, a := range archiveMIMEs {
		if mime.Is(a) {
			return types.ContentArchive
		}
	}
	for m := mime; m != nil; m = m.Parent() {
		s := m.String()
		switch {
		case strings.HasPrefix(s, "video/"):
			return types.ContentVideo
		case strings.HasPrefix(s, "audio/"):
			return types.ContentAudio
		case strings.HasPrefix(s, "image/"):
			return types.ContentImage
		case strings.HasPrefix(s, "text/"):
			return types.ContentText
		}
	}
	return types.ContentUnknown
}

// ContentType classifies the record by extension first and, when enabled,
// by sniffing its leading bytes. Directories and unreadable files are unknown.
func (e *Evaluator) ContentType(rec types.PathRecord) types.ContentType {
	if rec.IsDir() {
		return types.ContentUnknown
	}
	if ct := ContentTypeByExtension(rec.Path); ct != types.ContentUnknown {
		return ct
	}
	if !e.sniff {
		return types.ContentUnknown
	}

	f, err := e.fs.Open(rec.Path)
	if err != nil {
		e.logger.Debug().Err(err).Str("path", rec.Path).Msg("Content sniffing skipped")
		return types.ContentUnknown
	}
	defer f.Close()

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		return types.ContentUnknown
	}
	return ContentTypeForMIME(mime)
}
