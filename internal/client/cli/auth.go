package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/labdrive/internal/client/client"
	"github.com/dmitrijs2005/labdrive/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and opens a backend session. The last
// username is offered as the default. On success the image storage hook of
// the project is mounted.
func (a *App) Login(ctx context.Context) error {
	last, err := a.auth.LastUsername(ctx)
	if err != nil {
		a.log.Warn(ctx, "cannot read last username", "err", err)
	}

	prompt := "Enter username"
	if last != "" {
		prompt = fmt.Sprintf("Enter username [%s]", last)
	}
	userName, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if userName == "" {
		userName = last
	}
	if userName == "" {
		return errors.New("username is required")
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Login(ctx, userName, password); err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		return err
	}

	a.mu.Lock()
	a.userName = userName
	a.mu.Unlock()
	a.setMode(ModeOnline)
	fmt.Fprintln(a.out, "Login successful")

	a.mountImageStorage(ctx)
	return nil
}

func (a *App) mountImageStorage(ctx context.Context) {
	if a.hook == nil || a.hookOn {
		return
	}
	if err := a.hook.Mount(ctx); err != nil {
		a.log.Warn(ctx, "image storage not available yet", "err", err)
	}
	a.hookOn = true
}
