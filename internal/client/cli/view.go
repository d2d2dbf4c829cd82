package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/labdrive/internal/client/models"
	"github.com/dmitrijs2005/labdrive/internal/filex"
)

// cliForm is the terminal stand-in for the upload form: the selection is
// the list of paths given on the command line.
type cliForm struct {
	out      io.Writer
	selected []filex.Blob
	validity string
}

func (f *cliForm) Select(blobs []filex.Blob) {
	f.selected = blobs
}

func (f *cliForm) SelectedFiles() []filex.Blob { return f.selected }

func (f *cliForm) SetCustomValidity(msg string) {
	f.validity = msg
	if msg != "" {
		fmt.Fprintln(f.out, msg)
	}
}

func (f *cliForm) Reset() {
	f.selected = nil
	f.validity = ""
}

// tableView renders file listings as an aligned table.
type tableView struct {
	out io.Writer
}

func (t *tableView) Render(files []models.FileRecord) {
	renderFiles(t.out, files)
}

func renderFiles(w io.Writer, files []models.FileRecord) {
	if len(files) == 0 {
		fmt.Fprintln(w, "No files.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tTYPE\tPATH")
	var total uint64
	for _, f := range files {
		ct := f.ContentType
		if ct == "" {
			ct = "-"
		} else if i := strings.IndexByte(ct, ';'); i > 0 {
			ct = ct[:i]
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Name, humanize.Bytes(uint64(f.Size)), ct, f.Path)
		total += uint64(f.Size)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d file(s), %s\n", len(files), humanize.Bytes(total))
}
