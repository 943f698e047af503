package models

import "time"

// MIME types accepted for post images.
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeGIF  = "image/gif"
)

// Post is an image post. The binary payload lives in the row itself; list
// queries must select around it.
type Post struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"column:user_id;index;not null" json:"user_id"`
	Mime      string    `gorm:"column:mime;size:64;not null" json:"mime"`
	Imgdata   []byte    `gorm:"column:imgdata" json:"-"`
	Body      string    `gorm:"column:body;type:text" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the canonical table name.
func (Post) TableName() string { return "posts" }

// ValidMime reports whether mime is one of the accepted image types.
func ValidMime(mime string) bool {
	switch mime {
	case MimeJPEG, MimePNG, MimeGIF:
		return true
	}
	return false
}

// ImageExt returns the canonical file extension for the post's MIME type.
func (p Post) ImageExt() string {
	switch p.Mime {
	case MimeJPEG:
		return "jpg"
	case MimePNG:
		return "png"
	case MimeGIF:
		return "gif"
	}
	return ""
}

// MatchesExt reports whether a requested extension corresponds to the stored
// MIME type, so /image/:id.:ext cannot serve a payload under the wrong type.
func (p Post) MatchesExt(ext string) bool {
	e := p.ImageExt()
	return e != "" && e == ext
}
