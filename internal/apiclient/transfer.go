package apiclient

import (
	"bytes"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"regexp"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

var quotedFilename = regexp.MustCompile(`filename="(.+)"`)

// Download fetches a file. The name comes from Content-Disposition when the
// backend provides one and is empty otherwise.
func (c *Client) Download(ctx context.Context, path string) (*domain.Blob, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}
	return &domain.Blob{
		Data:        resp.Body,
		FileName:    filenameFromDisposition(resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func filenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	if _, params, err := mime.ParseMediaType(header); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}
	if m := quotedFilename.FindStringSubmatch(header); m != nil {
		return m[1]
	}
	return ""
}

// Upload posts content as the multipart field "file" using the extended
// upload timeout, decodes the payload into out, and returns the backend's
// message.
func (c *Client) Upload(ctx context.Context, path, fileName string, content io.Reader, out any) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", domain.NewAppError(domain.CodeInternal, "build upload", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", domain.NewAppError(domain.CodeInternal, "read upload", err)
	}
	if err := writer.Close(); err != nil {
		return "", domain.NewAppError(domain.CodeInternal, "build upload", err)
	}

	resp, err := c.Do(ctx, Request{
		Method:      http.MethodPost,
		Path:        path,
		Body:        body,
		ContentType: writer.FormDataContentType(),
		Upload:      true,
	})
	if err != nil {
		return "", err
	}
	return decodeResponse(resp, out)
}
