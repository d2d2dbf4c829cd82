package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/labdrive/internal/client/manager"
	"github.com/dmitrijs2005/labdrive/internal/client/models"
	"github.com/dmitrijs2005/labdrive/internal/client/tabguard"
	"github.com/dmitrijs2005/labdrive/internal/filex"
)

var (
	errNoProject = errors.New("no project selected (start with -p <project>)")
	errNoRun     = errors.New("no run selected (use: run <name>)")
)

func (a *App) SwitchRun(ctx context.Context, run string) error {
	if a.project == "" {
		return errNoProject
	}
	if a.guard != nil && a.guard.Click(a.draft) == tabguard.Blocked {
		ok, err := Confirm(a.reader, "Discard the unsaved comments of "+a.run+"?", a.out)
		if err != nil || !ok {
			return err
		}
		a.guard.Confirm(a.draft)
	}
	a.bindRun(run, a.kind)
	fmt.Fprintf(a.out, "Run: %s (%s)\n", run, a.kind)
	return nil
}

func (a *App) SwitchKind(ctx context.Context, kind string) error {
	k := models.Kind(kind)
	switch k {
	case models.KindRawData, models.KindProcessedData:
	default:
		return fmt.Errorf("unknown kind %q", kind)
	}
	guard, draft := a.guard, a.draft
	a.bindRun(a.run, k)
	a.guard, a.draft = guard, draft
	fmt.Fprintf(a.out, "Kind: %s\n", k)
	return nil
}

func (a *App) runManager() (*manager.Manager, error) {
	if a.project == "" {
		return nil, errNoProject
	}
	if a.runMgr == nil {
		return nil, errNoRun
	}
	return a.runMgr, nil
}

func (a *App) docManager() (*manager.Manager, error) {
	if a.docMgr == nil {
		return nil, errNoProject
	}
	return a.docMgr, nil
}

func (a *App) List(ctx context.Context) error {
	m, err := a.runManager()
	if err != nil {
		return err
	}
	_, err = m.FetchFiles(ctx)
	return err
}

func (a *App) Documents(ctx context.Context) error {
	m, err := a.docManager()
	if err != nil {
		return err
	}
	_, err = m.FetchFiles(ctx)
	return err
}

func (a *App) Upload(ctx context.Context, paths []string) error {
	m, err := a.runManager()
	if err != nil {
		return err
	}
	return a.submit(ctx, m, paths)
}

func (a *App) Attach(ctx context.Context, paths []string) error {
	m, err := a.docManager()
	if err != nil {
		return err
	}
	return a.submit(ctx, m, paths)
}

func (a *App) submit(ctx context.Context, m *manager.Manager, paths []string) error {
	blobs := make([]filex.Blob, 0, len(paths))
	for _, p := range paths {
		b, err := filex.OpenFile(p)
		if err != nil {
			return err
		}
		blobs = append(blobs, b)
	}

	a.form.Select(blobs)
	uploaded, err := m.Submit(ctx)
	if err != nil {
		if errors.Is(err, manager.ErrInvalidInput) {
			// the form already printed the message
			return nil
		}
		return err
	}
	fmt.Fprintf(a.out, "Uploaded %d file(s)\n", len(uploaded))
	return nil
}

// Fetch downloads a run file to dest. A dest that is an existing directory
// or ends with a separator receives the file under its own name.
func (a *App) Fetch(ctx context.Context, name, dest string) error {
	if a.files == nil {
		if a.project == "" {
			return errNoProject
		}
		return errNoRun
	}

	target := dest
	if fi, err := os.Stat(dest); (err == nil && fi.IsDir()) || strings.HasSuffix(dest, string(os.PathSeparator)) {
		dir, err := filex.EnsureDir(dest)
		if err != nil {
			return err
		}
		target = filepath.Join(dir, filepath.Base(name))
	}

	f, err := os.Create(target)
	if err != nil {
		return err
	}

	n, err := a.files.FetchFile(ctx, name, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(target)
		return err
	}

	fmt.Fprintf(a.out, "Saved %s (%s) to %s\n", name, humanize.Bytes(uint64(n)), target)
	return nil
}

func (a *App) Delete(ctx context.Context, name string) error {
	m, err := a.runManager()
	if err != nil {
		return err
	}
	if err := a.files.DeleteFile(ctx, name); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", name)
	_, err = m.FetchFiles(ctx)
	return err
}
