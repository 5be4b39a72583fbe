// Package filetype classifies a byte buffer into a FileType tag from a
// closed set by sniffing magic bytes. Detection rides on
// net/http.DetectContentType, the standard library's implementation of the
// WHATWG MIME-sniffing algorithm. It performs no I/O and has no error
// outcomes.
package filetype

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Kind names the top-level family of a FileType.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindDocument
	KindVideo
	KindAudio
)

// Sub enumerates the closed set of recognized sub-variants within a family.
type Sub int

const (
	SubOther Sub = iota
	SubJpeg
	SubPng
	SubGif
	SubWebp
	SubPdf
	SubDoc
	SubDocx
	SubMp4
	SubMkv
	SubAvi
	SubMp3
	SubWav
	SubFlac
)

// FileType is a tagged variant from the closed set described in the data
// model: Image{Jpeg|Png|Gif|Webp|Other}, Document{Pdf|Doc|Docx|Other},
// Video{Mp4|Mkv|Avi|Other}, Audio{Mp3|Wav|Flac|Other}, or Unknown.
type FileType struct {
	Kind Kind
	Sub  Sub
	// MIME holds the sniffed MIME string when Sub == SubOther, or for
	// KindUnknown. It is always populated for observability even when Sub
	// names a concrete variant.
	MIME string
}

func (t FileType) String() string {
	var family string
	switch t.Kind {
	case KindImage:
		family = "Image"
	case KindDocument:
		family = "Document"
	case KindVideo:
		family = "Video"
	case KindAudio:
		family = "Audio"
	default:
		return "Unknown"
	}
	if t.Sub == SubOther {
		return family + "(" + t.MIME + ")"
	}
	return family + "(" + subName(t.Sub) + ")"
}

func subName(s Sub) string {
	switch s {
	case SubJpeg:
		return "Jpeg"
	case SubPng:
		return "Png"
	case SubGif:
		return "Gif"
	case SubWebp:
		return "Webp"
	case SubPdf:
		return "Pdf"
	case SubDoc:
		return "Doc"
	case SubDocx:
		return "Docx"
	case SubMp4:
		return "Mp4"
	case SubMkv:
		return "Mkv"
	case SubAvi:
		return "Avi"
	case SubMp3:
		return "Mp3"
	case SubWav:
		return "Wav"
	case SubFlac:
		return "Flac"
	default:
		return "Other"
	}
}

// closedMapping maps a sniffed MIME type to a concrete (Kind, Sub) pair.
// MIME types not present here but within a known family fall back to
// Other(mime); everything else falls back to Unknown.
var closedMapping = map[string]struct {
	kind Kind
	sub  Sub
}{
	"image/jpeg":               {KindImage, SubJpeg},
	"image/png":                {KindImage, SubPng},
	"image/gif":                {KindImage, SubGif},
	"image/webp":               {KindImage, SubWebp},
	"application/pdf":          {KindDocument, SubPdf},
	"application/msword":       {KindDocument, SubDoc},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {KindDocument, SubDocx},
	"video/mp4":        {KindVideo, SubMp4},
	"video/x-matroska": {KindVideo, SubMkv},
	"video/x-msvideo":  {KindVideo, SubAvi},
	"audio/mpeg":       {KindAudio, SubMp3},
	"audio/wav":        {KindAudio, SubWav},
	"audio/x-wav":      {KindAudio, SubWav},
	"audio/flac":       {KindAudio, SubFlac},
	"audio/x-flac":     {KindAudio, SubFlac},
}

// Detect sniffs data's magic bytes and resolves a FileType. It is a pure
// function: no I/O, no error outcomes.
func Detect(data []byte) FileType {
	mimeType := http.DetectContentType(data)
	// DetectContentType appends a charset parameter for text types; strip it
	// so the closed mapping only has to key on the bare MIME type.
	bare, _, _ := strings.Cut(mimeType, ";")
	bare = strings.TrimSpace(bare)

	if v, ok := closedMapping[bare]; ok {
		return FileType{Kind: v.kind, Sub: v.sub, MIME: bare}
	}

	switch {
	case strings.HasPrefix(bare, "image/"):
		return FileType{Kind: KindImage, Sub: SubOther, MIME: bare}
	case strings.HasPrefix(bare, "video/"):
		return FileType{Kind: KindVideo, Sub: SubOther, MIME: bare}
	case strings.HasPrefix(bare, "audio/"):
		return FileType{Kind: KindAudio, Sub: SubOther, MIME: bare}
	case strings.HasPrefix(bare, "application/"):
		return FileType{Kind: KindDocument, Sub: SubOther, MIME: bare}
	default:
		return FileType{Kind: KindUnknown, MIME: bare}
	}
}

type jsonFileType struct {
	Kind string `json:"kind"`
	Sub  string `json:"sub,omitempty"`
	MIME string `json:"mime,omitempty"`
}

func kindName(k Kind) string {
	switch k {
	case KindImage:
		return "Image"
	case KindDocument:
		return "Document"
	case KindVideo:
		return "Video"
	case KindAudio:
		return "Audio"
	default:
		return "Unknown"
	}
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "Image":
		return KindImage, nil
	case "Document":
		return KindDocument, nil
	case "Video":
		return KindVideo, nil
	case "Audio":
		return KindAudio, nil
	case "Unknown":
		return KindUnknown, nil
	default:
		return KindUnknown, fmt.Errorf("filetype: unknown kind %q", s)
	}
}

func parseSub(s string) (Sub, error) {
	if s == "" {
		return SubOther, nil
	}
	for sub := SubOther; sub <= SubFlac; sub++ {
		if subName(sub) == s {
			return sub, nil
		}
	}
	return SubOther, fmt.Errorf("filetype: unknown sub %q", s)
}

// MarshalJSON encodes FileType as {"kind":"Image","sub":"Png","mime":"image/png"}.
func (t FileType) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonFileType{
		Kind: kindName(t.Kind),
		Sub:  subName(t.Sub),
		MIME: t.MIME,
	})
}

// UnmarshalJSON decodes a FileType encoded by MarshalJSON.
func (t *FileType) UnmarshalJSON(data []byte) error {
	var j jsonFileType
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	kind, err := parseKind(j.Kind)
	if err != nil {
		return err
	}
	sub, err := parseSub(j.Sub)
	if err != nil {
		return err
	}
	t.Kind = kind
	t.Sub = sub
	t.MIME = j.MIME
	return nil
}

// UsesTransformPath reports whether the store pipeline routes this
// FileType through compress+encrypt (Document and Unknown) or bypasses it
// (Image, Video, Audio — those formats are assumed already compressed and
// opaque; the bypass doubles as the hook point for future type-specific
// processing).
func (t FileType) UsesTransformPath() bool {
	return t.Kind == KindDocument || t.Kind == KindUnknown
}
