package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Benny93/c4-go/api"
	"github.com/Benny93/c4-go/internal/storage"
	"github.com/Benny93/c4-go/workspace"
)

// newClient builds an API client from the STRUCTURIZR_* settings.
func newClient(g *Globals) (*api.Client, *api.Settings, error) {
	s, err := api.LoadSettings(g.EnvFile)
	if err != nil {
		return nil, nil, err
	}
	c, err := api.NewClient(*s, api.WithLogger(g.logger()))
	if err != nil {
		return nil, nil, err
	}
	return c, s, nil
}

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// PullCmd downloads the configured remote workspace.
type PullCmd struct {
	Out string `short:"o" type:"path" help:"Destination file (default workspace-<id>.json); .gz compresses"`
}

// Run executes the pull command.
func (c *PullCmd) Run(g *Globals) error {
	client, s, err := newClient(g)
	if err != nil {
		return err
	}
	ctx, stop := interruptContext()
	defer stop()

	ws, err := client.GetWorkspace(ctx)
	if err != nil {
		return err
	}

	out := c.Out
	if out == "" {
		out = fmt.Sprintf("workspace-%d.json", s.WorkspaceID)
	}
	if err := ws.Dump(out); err != nil {
		return err
	}
	green.Fprintf(g.stdout(), "✓ Pulled workspace %d (%s) to %s\n", s.WorkspaceID, ws.Name, out)
	return nil
}

// PushCmd uploads a workspace document to the configured remote
// workspace.
type PushCmd struct {
	File    string `arg:"" type:"existingfile" help:"Workspace JSON file"`
	NoMerge bool   `help:"Do not copy diagram layout from the remote workspace"`
	NoLock  bool   `help:"Do not lock the remote workspace while uploading"`
}

// Run executes the push command.
func (c *PushCmd) Run(g *Globals) error {
	ws, err := workspace.Load(c.File)
	if err != nil {
		return err
	}
	client, s, err := newClient(g)
	if err != nil {
		return err
	}
	if ws.ID == 0 {
		ws.ID = s.WorkspaceID
	}
	client.MergeFromRemote = !c.NoMerge

	ctx, stop := interruptContext()
	defer stop()

	put := func(ctx context.Context) error { return client.PutWorkspace(ctx, ws) }
	if c.NoLock {
		err = put(ctx)
	} else {
		err = client.WithLock(ctx, put)
	}
	if err != nil {
		return err
	}
	green.Fprintf(g.stdout(), "✓ Pushed %s to workspace %d\n", c.File, s.WorkspaceID)
	return nil
}

// LockCmd locks the configured remote workspace.
type LockCmd struct{}

// Run executes the lock command.
func (c *LockCmd) Run(g *Globals) error {
	return runLock(g, true)
}

// UnlockCmd releases the lock on the configured remote workspace.
type UnlockCmd struct{}

// Run executes the unlock command.
func (c *UnlockCmd) Run(g *Globals) error {
	return runLock(g, false)
}

func runLock(g *Globals, lock bool) error {
	client, s, err := newClient(g)
	if err != nil {
		return err
	}
	ctx, stop := interruptContext()
	defer stop()

	verb, do := "lock", client.LockWorkspace
	if !lock {
		verb, do = "unlock", client.UnlockWorkspace
	}
	ok, err := do(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: could not %s workspace %d", api.ErrLockFailed, verb, s.WorkspaceID)
	}
	green.Fprintf(g.stdout(), "✓ Workspace %d %sed\n", s.WorkspaceID, verb)
	return nil
}

// ArchiveFlags select an archive and a workspace in it.
type ArchiveFlags struct {
	Workspace int64  `short:"w" required:"" help:"Workspace id"`
	Dir       string `short:"d" default:"." type:"path" help:"Archive location"`
	Backend   string `enum:"file,badger" default:"file" help:"Archive backend (file|badger)"`
}

func (f *ArchiveFlags) open() (storage.ArchiveBackend, error) {
	return storage.Open(f.Backend, f.Dir, true)
}

// ArchiveCmd groups the archive subcommands.
type ArchiveCmd struct {
	List ArchiveListCmd `cmd:"" help:"List archived downloads of a workspace, oldest first"`
	Show ArchiveShowCmd `cmd:"" help:"Print an archived workspace document"`
}

// ArchiveListCmd lists archived documents.
type ArchiveListCmd struct {
	ArchiveFlags
}

// Run executes the archive list command.
func (c *ArchiveListCmd) Run(g *Globals) error {
	b, err := c.open()
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	snapshots, err := b.List(context.Background(), c.Workspace)
	if err != nil {
		return err
	}
	w := g.stdout()
	if len(snapshots) == 0 {
		fmt.Fprintf(w, "No archived documents for workspace %d\n", c.Workspace)
		return nil
	}
	fmt.Fprintf(w, "## Workspace %d (%d archived)\n\n", c.Workspace, len(snapshots))
	for _, s := range snapshots {
		fmt.Fprintf(w, "%s  %8d  %s\n", s.Timestamp.Format("2006-01-02 15:04:05"), s.Size, s.Key)
	}
	return nil
}

// ArchiveShowCmd prints one archived document, the newest by default.
type ArchiveShowCmd struct {
	ArchiveFlags

	Key string `arg:"" optional:"" help:"Archive key as printed by archive list"`
	Out string `short:"o" type:"path" help:"Write to this file instead of stdout"`
}

// Run executes the archive show command.
func (c *ArchiveShowCmd) Run(g *Globals) error {
	b, err := c.open()
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	ctx := context.Background()
	var payload []byte
	if c.Key == "" {
		_, payload, err = storage.Latest(ctx, b, c.Workspace)
	} else {
		payload, err = b.Load(ctx, c.Key)
	}
	if err != nil {
		return err
	}
	return writeOutput(g, c.Out, payload)
}
