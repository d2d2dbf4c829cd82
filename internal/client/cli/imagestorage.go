package cli

import (
	"context"
	"fmt"
)

// ImageStorage prints the image container capability kept fresh by the
// project's hook, mounting the hook if needed.
func (a *App) ImageStorage(ctx context.Context) error {
	if a.hook == nil {
		return errNoProject
	}
	a.mountImageStorage(ctx)

	s := a.hook.Current()
	if s.BaseURL == "" {
		fmt.Fprintln(a.out, "Image storage not available.")
		return nil
	}
	fmt.Fprintf(a.out, "Base URL: %s\n", s.BaseURL)
	if exp, err := s.Expiry(); err == nil {
		fmt.Fprintf(a.out, "Expires:  %s\n", exp.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}
