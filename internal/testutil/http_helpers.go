package testutil

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"testing"
)

// Browser is an HTTP client that keeps cookies and follows redirects, so a
// test can walk through a session the way a user would.
type Browser struct {
	t       testing.TB
	baseURL string
	client  *http.Client
}

// Response is a completed request.
type Response struct {
	Status int
	Header http.Header
	Body   string
}

// NewBrowser returns a Browser rooted at baseURL.
func NewBrowser(t testing.TB, baseURL string) *Browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &Browser{t: t, baseURL: strings.TrimRight(baseURL, "/"), client: &http.Client{Jar: jar}}
}

// Get sends GET path.
func (b *Browser) Get(path string) Response {
	b.t.Helper()
	return b.do(http.MethodGet, path, nil, "")
}

// PostForm sends form values to path.
func (b *Browser) PostForm(path string, values url.Values) Response {
	b.t.Helper()
	return b.do(http.MethodPost, path, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
}

// Cookie returns the value of the named cookie for the base URL.
func (b *Browser) Cookie(name string) string {
	b.t.Helper()
	u, err := url.Parse(b.baseURL)
	if err != nil {
		b.t.Fatalf("parse base url: %v", err)
	}
	for _, cookie := range b.client.Jar.Cookies(u) {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

func (b *Browser) do(method, path string, body io.Reader, contentType string) Response {
	b.t.Helper()
	req, err := http.NewRequest(method, b.baseURL+path, body)
	if err != nil {
		b.t.Fatalf("build request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		b.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		b.t.Fatalf("read response: %v", err)
	}
	return Response{Status: resp.StatusCode, Header: resp.Header, Body: string(data)}
}
