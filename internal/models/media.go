package models

import "io"

// Media is a binary attachment forwarded to the backend as the file part of
// a multipart create/update call
type Media struct {
	FieldName   string
	Filename    string
	ContentType string
	Reader      io.Reader
}
