package client

import (
	"bytes"
	"io"
	"mime/multipart"

	"github.com/pkg/errors"
)

// FormFile is a file part of a multipart upload.
type FormFile struct {
	Field    string
	Filename string
	Content  io.Reader
}

// MultipartForm encodes text fields and files as a multipart/form-data
// payload, returning the boundary-bearing content type alongside the body.
// Pass the result through RawBody so the content type is not overridden.
func MultipartForm(fields map[string]string, files ...FormFile) (contentType string, body []byte, err error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for field, value := range fields {
		if err := writer.WriteField(field, value); err != nil {
			return "", nil, errors.Wrapf(err, "[MultipartForm] write field %q", field)
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return "", nil, errors.Wrapf(err, "[MultipartForm] create file part %q", file.Field)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return "", nil, errors.Wrapf(err, "[MultipartForm] copy file %q", file.Filename)
		}
	}
	if err := writer.Close(); err != nil {
		return "", nil, errors.Wrap(err, "[MultipartForm] close writer")
	}

	return writer.FormDataContentType(), buf.Bytes(), nil
}
