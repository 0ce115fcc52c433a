package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStatusOnly(t *testing.T) {
	s := Normalize(&Completion{Status: 200, StatusText: "OK"})

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"statusCode":200,"statusText":"OK","responseJSON":null,"responseText":null}`, string(b))
}

func TestNormalizeEmpty(t *testing.T) {
	allNull := `{"statusCode":null,"statusText":null,"responseJSON":null,"responseText":null}`

	for _, raw := range []*Completion{nil, {}} {
		b, err := json.Marshal(Normalize(raw))
		require.NoError(t, err)
		assert.JSONEq(t, allNull, string(b))
	}
}

func TestNormalizeAllFields(t *testing.T) {
	s := Normalize(&Completion{
		Status:       201,
		StatusText:   "Created",
		ResponseJSON: map[string]any{"id": "api.telemetry"},
		ResponseText: `{"id":"api.telemetry"}`,
	})

	require.NotNil(t, s.StatusCode)
	assert.Equal(t, 201, *s.StatusCode)
	assert.Equal(t, "Created", *s.StatusText)
	assert.Equal(t, map[string]any{"id": "api.telemetry"}, s.ResponseJSON)
	assert.Equal(t, `{"id":"api.telemetry"}`, *s.ResponseText)
}

func TestNewCompletionDecodesJSON(t *testing.T) {
	res := &http.Response{
		StatusCode: 200,
		Status:     "200 OK",
		Header:     http.Header{"Content-Type": []string{"application/json; charset=utf-8"}},
		Body:       io.NopCloser(strings.NewReader(`{"responseCode":"SUCCESSFUL"}`)),
	}

	c, err := newCompletion(res)
	require.NoError(t, err)
	assert.Equal(t, 200, c.Status)
	assert.Equal(t, "OK", c.StatusText)
	assert.Equal(t, map[string]any{"responseCode": "SUCCESSFUL"}, c.ResponseJSON)
	assert.Equal(t, `{"responseCode":"SUCCESSFUL"}`, c.ResponseText)
}

func TestNewCompletionKeepsBrokenJSONAsText(t *testing.T) {
	res := &http.Response{
		StatusCode: 502,
		Status:     "502 Bad Gateway",
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`<html>`)),
	}

	c, err := newCompletion(res)
	require.NoError(t, err)
	assert.Nil(t, c.ResponseJSON)
	assert.Equal(t, "<html>", c.ResponseText)
	assert.Equal(t, "Bad Gateway", c.StatusText)
}

func TestNewCompletionIgnoresNonJSON(t *testing.T) {
	res := &http.Response{
		StatusCode: 200,
		Status:     "200 OK",
		Header:     http.Header{"Content-Type": []string{"text/plain"}},
		Body:       io.NopCloser(strings.NewReader(`{"a":1}`)),
	}

	c, err := newCompletion(res)
	require.NoError(t, err)
	assert.Nil(t, c.ResponseJSON)
	assert.Equal(t, `{"a":1}`, c.ResponseText)
}

func TestNewCompletionWithoutReasonPhrase(t *testing.T) {
	res := &http.Response{
		StatusCode: 299,
		Status:     "299",
		Body:       io.NopCloser(strings.NewReader("")),
	}

	c, err := newCompletion(res)
	require.NoError(t, err)
	assert.Equal(t, "", c.StatusText)

	s := Normalize(c)
	require.NotNil(t, s.StatusCode)
	assert.Equal(t, 299, *s.StatusCode)
	assert.Nil(t, s.StatusText)
}

func TestNewCompletionFailsOnBrokenBody(t *testing.T) {
	res := &http.Response{
		StatusCode: 200,
		Status:     "200 OK",
		Body:       io.NopCloser(iotest.ErrReader(context.DeadlineExceeded)),
	}

	_, err := newCompletion(res)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
