package testsupport

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"
)

// FileHeader builds a multipart file header holding content, as a parsed form would.
func FileHeader(t *testing.T, field, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}

// MultipartBody is a multipart request body under construction.
type MultipartBody struct {
	buf bytes.Buffer
	w   *multipart.Writer
}

func NewMultipartBody() *MultipartBody {
	b := &MultipartBody{}
	b.w = multipart.NewWriter(&b.buf)
	return b
}

func (b *MultipartBody) Field(name, value string) *MultipartBody {
	_ = b.w.WriteField(name, value)
	return b
}

func (b *MultipartBody) File(field, filename string, content []byte) *MultipartBody {
	part, err := b.w.CreateFormFile(field, filename)
	if err == nil {
		_, _ = part.Write(content)
	}
	return b
}

// Close finishes the body and returns it with its Content-Type header value.
func (b *MultipartBody) Close() (*bytes.Buffer, string) {
	_ = b.w.Close()
	return &b.buf, b.w.FormDataContentType()
}
