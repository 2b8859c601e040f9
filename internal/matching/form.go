package matching

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"strings"
)

// MatchFormData checks that every expected field of an
// application/x-www-form-urlencoded body has the expected value.
func MatchFormData(expected map[string]string, contentType string, body []byte) bool {
	if !strings.EqualFold(contentType, "application/x-www-form-urlencoded") {
		return false
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return false
	}
	for name, want := range expected {
		if !HasQueryParam(name, values) || values.Get(name) != want {
			return false
		}
	}
	return true
}

// MultipartField describes an expected part of a multipart body. Empty
// fields are not compared.
type MultipartField struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`
	Content  string `json:"content,omitempty" yaml:"content,omitempty"`
}

type multipartPart struct {
	name     string
	filename string
	content  []byte
}

// MatchMultipart checks that each expected field is satisfied by some part
// of a multipart/form-data body. contentTypeHeader must be the full
// Content-Type header, boundary included.
func MatchMultipart(expected []MultipartField, contentTypeHeader string, body []byte) bool {
	parts, err := parseMultipart(contentTypeHeader, body)
	if err != nil {
		return false
	}
	for _, want := range expected {
		found := false
		for _, p := range parts {
			if want.Name != "" && want.Name != p.name {
				continue
			}
			if want.Filename != "" && want.Filename != p.filename {
				continue
			}
			if want.Content != "" && want.Content != string(p.content) {
				continue
			}
			found = true
			break
		}
		if !found {
			return false
		}
	}
	return true
}

func parseMultipart(contentTypeHeader string, body []byte) ([]multipartPart, error) {
	mediaType, params, err := mime.ParseMediaType(contentTypeHeader)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(mediaType, "multipart/form-data") {
		return nil, errors.New("not multipart/form-data")
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, errors.New("missing multipart boundary")
	}

	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	var parts []multipartPart
	for {
		p, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return parts, nil
		}
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(p)
		if err != nil {
			return nil, err
		}
		parts = append(parts, multipartPart{
			name:     p.FormName(),
			filename: p.FileName(),
			content:  content,
		})
	}
}
