package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/dmitrijs2005/labdrive/internal/client/tabguard"
)

const commentsField = "comments"

// terminalModal is the confirmation "dialog" of the tab guard.
type terminalModal struct {
	out io.Writer
}

func (m terminalModal) Open() {
	fmt.Fprintln(m.out, "You have unsaved comments on this run.")
}

// Comments shows the notebook comments of the current run and lets the
// user replace them. A draft that is not saved stays pending and guards
// the next run switch.
func (a *App) Comments(ctx context.Context) error {
	if a.notebook == nil {
		if a.project == "" {
			return errNoProject
		}
		return errNoRun
	}

	saved, err := a.notebook.Load(ctx)
	if err != nil {
		return err
	}
	savedForm := url.Values{commentsField: {saved}}

	if a.guard == nil {
		a.guard = tabguard.New(savedForm, terminalModal{out: a.out})
		a.draft = savedForm
	}

	if a.guard.Dirty(a.draft) {
		fmt.Fprintf(a.out, "Unsaved draft:\n%s\n", a.draft.Get(commentsField))
	} else {
		fmt.Fprintf(a.out, "Comments of %s:\n%s\n", a.run, saved)
	}

	text, err := GetMultiline(a.reader, "Enter new comments (empty keeps the current text)", a.out)
	if err != nil {
		return err
	}
	if text != "" {
		a.draft = url.Values{commentsField: {text}}
	}
	if !a.guard.Dirty(a.draft) {
		return nil
	}

	ok, err := Confirm(a.reader, "Save comments?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Draft kept.")
		return nil
	}

	if err := a.notebook.Save(ctx, a.draft.Get(commentsField)); err != nil {
		return err
	}
	a.guard.Reset(a.draft)
	fmt.Fprintln(a.out, "Comments saved.")
	return nil
}
