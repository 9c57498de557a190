package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/tone-changer/internal/interface/form"
)

func TestReadText(t *testing.T) {
	text, err := readText(strings.NewReader("ignored"), []string{"The", "meeting", "is", "off."})
	require.NoError(t, err)
	require.Equal(t, "The meeting is off.", text)

	text, err = readText(strings.NewReader("from stdin\n"), nil)
	require.NoError(t, err)
	require.Equal(t, "from stdin\n", text)

	_, err = readText(strings.NewReader(""), nil)
	require.Error(t, err)
}

func TestRewriteCommand(t *testing.T) {
	var gotSecret string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("X-API-Secret")
		_, _ = w.Write([]byte(`{"rewrittenText":"Ahoy, the meeting be off!"}`))
	}))
	defer server.Close()

	stdout, stderr, err := runCommand(t, "rewrite", "--endpoint", server.URL, "--secret", "s3cret", "--other", "pirate", "The meeting is cancelled.")
	require.NoError(t, err)
	require.Equal(t, "s3cret", gotSecret)
	require.Equal(t, "Ahoy, the meeting be off!\n", stdout)
	require.Contains(t, stderr, form.LabelSubmitBusy)
}

func TestRewriteCommandReportsRelayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"Forbidden"}`))
	}))
	defer server.Close()

	stdout, stderr, err := runCommand(t, "rewrite", "--endpoint", server.URL, "--secret", "wrong", "--tone", "calm", "hello")
	var reported reportedError
	require.True(t, errors.As(err, &reported))
	require.Empty(t, stdout)
	require.Contains(t, stderr, "An error occurred: Forbidden")
	require.Contains(t, stderr, form.MsgRewriteFailed)
}

func TestRewriteCommandWithoutConfig(t *testing.T) {
	t.Setenv("TONE_API_URL", "")
	t.Setenv("TONE_API_SECRET", "")

	_, _, err := runCommand(t, "rewrite", "--env-file", t.TempDir()+"/none.env", "--tone", "calm", "hello")
	require.ErrorIs(t, err, form.ErrFormDisabled)
}

func TestTonesCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tones/trending", r.URL.Path)
		_, _ = w.Write([]byte(`{"tones":[{"tone":"Cheerful","count":4}]}`))
	}))
	defer server.Close()

	stdout, _, err := runCommand(t, "tones", "--endpoint", server.URL+"/api/tone-changer", "--secret", "s3cret")
	require.NoError(t, err)
	require.Contains(t, stdout, "TONE")
	require.Contains(t, stdout, "Cheerful")
	require.Contains(t, stdout, "4")
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
