package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/translateplus/translateplus-go/internal/apierrors"
)

const (
	contentTypeJSON        = "application/json; charset=utf-8"
	contentTypeOctetStream = "application/octet-stream"
)

// bodyFunc produces a fresh request body for every attempt.
type bodyFunc func() (body io.Reader, contentType string)

// prepareBody validates the request payload and returns a factory for its
// body, or nil when the request carries none.
func prepareBody(req Request) (bodyFunc, error) {
	if req.multipart() {
		files, err := statFiles(req.Files)
		if err != nil {
			return nil, err
		}
		fields := req.Body
		return func() (io.Reader, string) {
			return streamMultipart(fields, files)
		}, nil
	}

	if req.Body == nil {
		return nil, nil
	}

	data, err := req.Body.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}
	return func() (io.Reader, string) {
		return bytes.NewReader(data), contentTypeJSON
	}, nil
}

type filePart struct {
	field string
	path  string
}

// statFiles checks that every attachment exists and orders them by field name.
func statFiles(files map[string]string) ([]filePart, error) {
	parts := make([]filePart, 0, len(files))
	for field, path := range files {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return nil, apierrors.NewValidationError(err, "File not found: %s", path)
		}
		parts = append(parts, filePart{field: field, path: path})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].field < parts[j].field })
	return parts, nil
}

// streamMultipart writes the form through a pipe so file contents are never
// buffered in memory. Closing the returned reader stops the writer.
func streamMultipart(fields Fields, files []filePart) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeMultipart(mw, fields, files))
	}()

	return pr, mw.FormDataContentType()
}

func writeMultipart(mw *multipart.Writer, fields Fields, files []filePart) error {
	for _, field := range fields {
		if err := mw.WriteField(field.Key, fmt.Sprint(field.Value)); err != nil {
			return err
		}
	}
	for _, file := range files {
		if err := writeFilePart(mw, file); err != nil {
			return err
		}
	}
	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFilePart(mw *multipart.Writer, file filePart) error {
	f, err := os.Open(file.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", file.path, err)
	}
	defer f.Close()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(file.field), quoteEscaper.Replace(filepath.Base(file.path))))
	h.Set("Content-Type", contentTypeOctetStream)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}
