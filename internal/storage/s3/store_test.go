package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lectern/pkg/types"
)

// fakeBucket is an http.RoundTripper that serves GetObject and PutObject for
// path-style requests against a single bucket.
type fakeBucket struct {
	mu       sync.Mutex
	objects  map[string][]byte
	failPuts bool
}

func newFakeBucket() *fakeBucket { return &fakeBucket{objects: make(map[string][]byte)} }

func (f *fakeBucket) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	switch req.Method {
	case http.MethodPut:
		if f.failPuts {
			return xmlResponse(http.StatusServiceUnavailable, "SlowDown", "try later"), nil
		}
		body, _ := io.ReadAll(req.Body)
		if strings.Contains(req.Header.Get("Content-Encoding"), "aws-chunked") {
			body = decodeChunked(body)
		}
		f.objects[key] = body
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{"ETag": {`"etag"`}}}, nil
	case http.MethodGet:
		obj, ok := f.objects[key]
		if !ok {
			return xmlResponse(http.StatusNotFound, "NoSuchKey", "The specified key does not exist."), nil
		}
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(obj)), Header: http.Header{
			"Content-Length": {strconv.Itoa(len(obj))},
			"Content-Type":   {contentType},
			"ETag":           {`"etag"`},
		}}, nil
	}
	return &http.Response{StatusCode: http.StatusNotImplemented, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
}

func xmlResponse(status int, code, msg string) *http.Response {
	body := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>%s</Code><Message>%s</Message></Error>`, code, msg)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": {"application/xml"}},
	}
}

// decodeChunked strips aws-chunked framing: <hex>[;ext]\r\n<data>\r\n ... 0\r\n<trailers>.
func decodeChunked(b []byte) []byte {
	var out []byte
	for len(b) > 0 {
		i := bytes.Index(b, []byte("\r\n"))
		if i < 0 {
			break
		}
		header := string(b[:i])
		if semi := strings.IndexByte(header, ';'); semi >= 0 {
			header = header[:semi]
		}
		n, err := strconv.ParseInt(header, 16, 64)
		if err != nil || n == 0 {
			break
		}
		b = b[i+2:]
		if int64(len(b)) < n {
			break
		}
		out = append(out, b[:n]...)
		b = bytes.TrimPrefix(b[n:], []byte("\r\n"))
	}
	return out
}

func newTestStore(t *testing.T, fake *fakeBucket, prefix string) *Store {
	t.Helper()
	s, err := New(context.Background(),
		types.S3Config{Bucket: "rooms", Prefix: prefix, Endpoint: "https://s3.test.local", PathStyle: true},
		&Credentials{AccessKeyID: "AKIA", SecretAccessKey: "SECRET"},
		func(o *s3.Options) {
			o.HTTPClient = &http.Client{Transport: fake}
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		},
	)
	require.NoError(t, err)
	return s
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), types.S3Config{}, nil)
	assert.ErrorIs(t, err, types.ErrBucketRequired)
}

func TestGetMissingObject(t *testing.T) {
	s := newTestStore(t, newFakeBucket(), "")
	v, found, err := s.Get(context.Background(), types.CollectionClassrooms)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)
}

func TestSetThenGet(t *testing.T) {
	ctx := context.Background()
	fake := newFakeBucket()
	s := newTestStore(t, fake, "/lectern/")

	require.NoError(t, s.Set(ctx, types.CollectionClassrooms, []byte(`[{"id":"1"}]`)))

	_, ok := fake.objects["lectern/classrooms.json"]
	assert.True(t, ok, "object key should be prefix/key.json, got %v", fake.objects)

	v, found, err := s.Get(ctx, types.CollectionClassrooms)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"1"}]`, string(v))
}

func TestSetFailureIsReported(t *testing.T) {
	ctx := context.Background()
	fake := newFakeBucket()
	s := newTestStore(t, fake, "")
	require.NoError(t, s.Set(ctx, "tasks", []byte(`[]`)))

	fake.failPuts = true
	s.client = s3.New(s.client.Options(), func(o *s3.Options) { o.RetryMaxAttempts = 1 })
	assert.Error(t, s.Set(ctx, "tasks", []byte(`[1]`)))

	v, _, err := s.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(v))
}

func TestInvalidKey(t *testing.T) {
	s := newTestStore(t, newFakeBucket(), "")
	assert.ErrorIs(t, s.Set(context.Background(), "a/b", nil), types.ErrInvalidKey)
	_, _, err := s.Get(context.Background(), "")
	assert.ErrorIs(t, err, types.ErrInvalidKey)
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "", normalizePrefix(""))
	assert.Equal(t, "", normalizePrefix("/"))
	assert.Equal(t, "a/", normalizePrefix("a"))
	assert.Equal(t, "a/b/", normalizePrefix("/a/b/"))
}
