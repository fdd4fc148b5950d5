// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"fmt"
	"io"
	"os"

	"github.com/slcs/org.glite.slcs.common/src/internal/helper/gc"
	"github.com/slcs/org.glite.slcs.common/src/logger"
)

// File modes for the files this module writes.
const (
	// ModePrivateKey is owner read/write only.
	ModePrivateKey os.FileMode = 0o600
	// ModePublic is owner read/write and group read, for requests and
	// certificates.
	ModePublic os.FileMode = 0o640
)

// WriteFile writes data to the named file, creating or truncating it, with
// permissions perm.
//
// The permissions are set on the open file before data is written. A
// failure to set them is reported to log and does not stop the write. If
// writing or closing fails the file is removed and the error returned.
func WriteFile(name string, data []byte, perm os.FileMode, log logger.Logger) (err error) {
	log = logger.OrDiscard(log)

	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("posix: cannot create %s: %w", name, err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("posix: cannot close %s: %w", name, cerr)
		}
		if err != nil {
			if rerr := os.Remove(name); rerr != nil {
				log.Errorf("cannot remove partial file %s: %v", name, rerr)
			}
		}
	}()

	if cerr := f.Chmod(perm); cerr != nil {
		log.Warnf("cannot set permissions %v on %s: %v", perm, name, cerr)
	}

	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("posix: cannot write %s: %w", name, err)
	}

	return nil
}

// ReadFile reads the named file through a pooled buffer and returns a copy
// of its contents.
func ReadFile(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("posix: cannot open %s: %w", name, err)
	}
	defer f.Close()

	return readAll(f, name)
}

func readAll(r io.Reader, name string) ([]byte, error) {
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()         // Reset the buffer to prevent data leaks
		gc.Default.Put(buf) // Return the buffer to the pool for reuse
	}()

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("posix: cannot read %s: %w", name, err)
	}

	data := make([]byte, buf.Len())
	copy(data, buf.Bytes())
	return data, nil
}
