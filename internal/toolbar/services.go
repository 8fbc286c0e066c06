package toolbar

import (
	"context"
	"fmt"
)

// API is the subset of the control API the actions call when executed.
type API interface {
	Unmount(ctx context.Context, mountPoint string) error
	UnmountAll(ctx context.Context) error
	StopServe(ctx context.Context, id string) error
	StopAllServes(ctx context.Context) error
	ForgetVFS(ctx context.Context, fs string) error
	ForgetAllVFS(ctx context.Context) error
	Cleanup(ctx context.Context, fs string) error
}

// LiveStore is the live-resource cache as seen by actions at execution
// time. Drop methods apply the optimistic update after a successful stop.
type LiveStore interface {
	Resources() Live
	DropMount(mountPoint string)
	DropAllMounts()
	DropServe(id string)
	DropAllServes()
	DropVFS(fs string)
	DropAllVFS()
}

// Host describes the control API endpoint the palette talks to.
type Host struct {
	URL      string
	User     string
	Password string
	Local    bool // the engine runs on this machine, so mount points can be revealed
}

// Services bundles the side effects actions may perform. Nil function
// fields fall back to no-ops or ErrUnavailable.
type Services struct {
	API  API
	Live LiveStore
	Host Host

	Clipboard func(text string) error
	Notify    func(title, body string)
	Confirm   func(prompt string) bool
	Reveal    func(ctx context.Context, path string) error
	OpenURL   func(ctx context.Context, url string) error
	Quit      func()
}

func (s *Services) notify(title, body string) {
	if s.Notify != nil {
		s.Notify(title, body)
	}
}

// fail notifies the user and returns err wrapped with title.
func (s *Services) fail(title string, err error) error {
	s.notify(title, err.Error())
	return fmt.Errorf("%s: %w", title, err)
}

func (s *Services) confirm(prompt string) bool {
	if s.Confirm == nil {
		return true
	}
	return s.Confirm(prompt)
}

func (s *Services) copyText(text string) error {
	if s.Clipboard == nil {
		return fmt.Errorf("clipboard: %w", ErrUnavailable)
	}
	return s.Clipboard(text)
}

func (s *Services) reveal(ctx context.Context, path string) error {
	if s.Reveal == nil {
		return fmt.Errorf("reveal: %w", ErrUnavailable)
	}
	return s.Reveal(ctx, path)
}

func (s *Services) openURL(ctx context.Context, u string) error {
	if s.OpenURL == nil {
		return fmt.Errorf("open url: %w", ErrUnavailable)
	}
	return s.OpenURL(ctx, u)
}

func (s *Services) api() (API, error) {
	if s.API == nil {
		return nil, fmt.Errorf("control api: %w", ErrUnavailable)
	}
	return s.API, nil
}

func (s *Services) resources() Live {
	if s.Live == nil {
		return Live{}
	}
	return s.Live.Resources()
}

// drop runs fn against the live store when one is configured.
func (s *Services) drop(fn func(LiveStore)) {
	if s.Live != nil {
		fn(s.Live)
	}
}
