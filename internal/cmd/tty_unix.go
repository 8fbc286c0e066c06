//go:build !windows

package cmd

import "os"

// openTTY opens the controlling terminal for the palette. Stdin and stdout
// stay free for pipes.
func openTTY() (in, out *os.File, err error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}
	return tty, tty, nil
}
