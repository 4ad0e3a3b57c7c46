package shader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/stardust-engine/shaderbuild/pkg/logger"
	"go.uber.org/multierr"
)

var copyLog = logger.New("shader:copy")

// copyArtifacts copies every artifact into dest, creating dest if needed.
// Each failure is reported separately and the remaining files are still
// copied.
func copyArtifacts(artifacts []string, dest string) (int, []*CopyError) {
	copyLog.Printf("Copying %d artifacts to %s", len(artifacts), dest)

	if err := os.MkdirAll(dest, 0755); err != nil {
		errs := make([]*CopyError, 0, len(artifacts))
		for _, a := range artifacts {
			errs = append(errs, &CopyError{Artifact: a, Dest: dest, Err: err})
		}
		return 0, errs
	}

	copied := 0
	var errs []*CopyError
	for _, artifact := range artifacts {
		target := filepath.Join(dest, filepath.Base(artifact))
		if err := copyFile(artifact, target); err != nil {
			copyLog.Printf("Failed to copy %s: %v", artifact, err)
			errs = append(errs, &CopyError{Artifact: artifact, Dest: dest, Err: err})
			continue
		}
		copied++
	}

	copyLog.Printf("Copied %d artifacts, %d failures", copied, len(errs))
	return copied, errs
}

// copyFile copies src to dst keeping permission bits and modification time.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// CopyErr combines all copy failures into a single error, or nil.
func (s *BuildSummary) CopyErr() error {
	var err error
	for _, e := range s.CopyErrors {
		err = multierr.Append(err, e)
	}
	return err
}
