package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/c4-go/api"
	"github.com/Benny93/c4-go/workspace"
)

// remote is a minimal workspace service for workspace 19. It does not
// check signatures; the api package tests cover those.
type remote struct {
	mu       sync.Mutex
	document []byte
	locked   bool
	calls    []string
}

func (s *remote) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	call := r.Method + " " + r.URL.Path
	s.calls = append(s.calls, call)
	switch call {
	case "GET /workspace/19":
		_, _ = w.Write(s.document)
	case "PUT /workspace/19":
		body, _ := io.ReadAll(r.Body)
		s.document = body
		_, _ = io.WriteString(w, `{"success":true,"message":"OK"}`)
	case "PUT /workspace/19/lock":
		if s.locked {
			_, _ = io.WriteString(w, `{"success":false,"message":"The workspace is already locked"}`)
			return
		}
		s.locked = true
		_, _ = io.WriteString(w, `{"success":true,"message":"OK"}`)
	case "DELETE /workspace/19/lock":
		s.locked = false
		_, _ = io.WriteString(w, `{"success":true,"message":"OK"}`)
	default:
		http.NotFound(w, r)
	}
}

func (s *remote) Document() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document
}

func (s *remote) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = true
}

func (s *remote) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// setupRemote starts a fake service holding the getting started
// workspace and writes an env file pointing at it. It returns the env
// file and the archive directory.
func setupRemote(t *testing.T) (*remote, string, string) {
	t.Helper()

	ws, err := workspace.GettingStarted()
	require.NoError(t, err)
	ws.ID = 19
	doc, err := ws.Dumps()
	require.NoError(t, err)

	svc := &remote{document: doc}
	server := httptest.NewServer(svc)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	archive := filepath.Join(dir, "archive")
	require.NoError(t, os.Mkdir(archive, 0o755))
	envFile := filepath.Join(dir, "c4.env")
	content := strings.Join([]string{
		"STRUCTURIZR_URL=" + server.URL,
		"STRUCTURIZR_WORKSPACE_ID=19",
		"STRUCTURIZR_API_KEY=7f4e4edc-f61c-4ff2-97c9-ea4bc2a7c98c",
		"STRUCTURIZR_API_SECRET=ae140655-da7c-4a8d-9467-5a7d9792fca0",
		"STRUCTURIZR_USER=tester@localhost",
		"STRUCTURIZR_WORKSPACE_ARCHIVE_LOCATION=" + archive,
	}, "\n")
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))
	return svc, envFile, archive
}

func TestPullCmd_Run(t *testing.T) {
	t.Parallel()

	_, envFile, archive := setupRemote(t)
	out := filepath.Join(t.TempDir(), "pulled.json")
	var stdout bytes.Buffer

	err := (&PullCmd{Out: out}).Run(&Globals{EnvFile: envFile, out: &stdout})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Pulled workspace 19 (Getting Started)")
	ws, err := workspace.Load(out)
	require.NoError(t, err)
	assert.Equal(t, int64(19), ws.ID)

	t.Run("Archived", func(t *testing.T) {
		var list bytes.Buffer

		err := (&ArchiveListCmd{ArchiveFlags{Workspace: 19, Dir: archive, Backend: "file"}}).Run(&Globals{out: &list})

		require.NoError(t, err)
		assert.Contains(t, list.String(), "## Workspace 19 (1 archived)")
		assert.Contains(t, list.String(), "structurizr-19-")
	})

	t.Run("ShowLatest", func(t *testing.T) {
		var doc bytes.Buffer

		err := (&ArchiveShowCmd{ArchiveFlags: ArchiveFlags{Workspace: 19, Dir: archive, Backend: "file"}}).Run(&Globals{out: &doc})

		require.NoError(t, err)
		archived, err := workspace.Loads(doc.Bytes())
		require.NoError(t, err)
		assert.Equal(t, "Getting Started", archived.Name)
	})
}

func TestPushCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("LocksMergesAndUploads", func(t *testing.T) {
		t.Parallel()
		svc, envFile, _ := setupRemote(t)
		path := writeExample(t, workspace.GettingStarted, "local.json")
		var stdout bytes.Buffer

		err := (&PushCmd{File: path}).Run(&Globals{EnvFile: envFile, out: &stdout})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Pushed")
		assert.Equal(t, []string{
			"PUT /workspace/19/lock",
			"GET /workspace/19",
			"PUT /workspace/19",
			"DELETE /workspace/19/lock",
		}, svc.Calls())

		uploaded, err := workspace.Loads(svc.Document())
		require.NoError(t, err)
		assert.Equal(t, "tester@localhost", uploaded.LastModifiedUser)
	})

	t.Run("NoLockNoMerge", func(t *testing.T) {
		t.Parallel()
		svc, envFile, _ := setupRemote(t)
		path := writeExample(t, workspace.GettingStarted, "local.json")

		err := (&PushCmd{File: path, NoLock: true, NoMerge: true}).Run(&Globals{EnvFile: envFile, out: &bytes.Buffer{}})

		require.NoError(t, err)
		assert.Equal(t, []string{"PUT /workspace/19"}, svc.Calls())
	})

	t.Run("LockedElsewhere", func(t *testing.T) {
		t.Parallel()
		svc, envFile, _ := setupRemote(t)
		svc.Lock()
		path := writeExample(t, workspace.GettingStarted, "local.json")

		err := (&PushCmd{File: path}).Run(&Globals{EnvFile: envFile, out: &bytes.Buffer{}})

		assert.ErrorIs(t, err, api.ErrLockFailed)
		assert.Equal(t, []string{"PUT /workspace/19/lock"}, svc.Calls())
	})

	t.Run("BadSettings", func(t *testing.T) {
		t.Parallel()
		path := writeExample(t, workspace.GettingStarted, "local.json")
		envFile := filepath.Join(t.TempDir(), "empty.env")
		require.NoError(t, os.WriteFile(envFile, []byte("STRUCTURIZR_WORKSPACE_ID=19\n"), 0o600))

		err := (&PushCmd{File: path}).Run(&Globals{EnvFile: envFile, out: &bytes.Buffer{}})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid settings")
	})
}

func TestLockCmd_Run(t *testing.T) {
	t.Parallel()

	_, envFile, _ := setupRemote(t)
	g := &Globals{EnvFile: envFile, out: &bytes.Buffer{}}

	require.NoError(t, (&LockCmd{}).Run(g))
	assert.ErrorIs(t, (&LockCmd{}).Run(g), api.ErrLockFailed)
	require.NoError(t, (&UnlockCmd{}).Run(g))
	require.NoError(t, (&LockCmd{}).Run(g))
}

func TestArchiveListCmd_Empty(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := (&ArchiveListCmd{ArchiveFlags{Workspace: 7, Dir: t.TempDir(), Backend: "file"}}).Run(&Globals{out: &out})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "No archived documents for workspace 7")
}
