package shell

import (
	"os"
	"path/filepath"

	"github.com/upstack-sh/upstack/pkg/errors"
	"github.com/upstack-sh/upstack/pkg/logging"
)

// WriteScripts renders and writes every setup script into dir. It returns
// the paths written so far; on the first failure no further files are
// produced.
func WriteScripts(dir string, p Params) ([]string, error) {
	logger := logging.GetLogger("shell")

	var written []string
	for _, script := range Scripts() {
		content, err := Render(script.Shell, p)
		if err != nil {
			return written, err
		}

		path := filepath.Join(dir, script.FileName)
		if err := writeFile(path, content); err != nil {
			return written, err
		}

		logger.Debug().Str("file", path).Str("shell", script.Shell).Msg("setup script written")
		written = append(written, path)
	}
	return written, nil
}

// writeFile writes content to path, guaranteeing the handle is closed and
// flushed on every exit path.
func writeFile(path, content string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "cannot open %s for writing", path)
	}

	_, werr := f.WriteString(content)
	cerr := f.Close()
	if werr != nil {
		return errors.Wrapf(werr, errors.ErrFileWrite, "cannot write %s", path)
	}
	if cerr != nil {
		return errors.Wrapf(cerr, errors.ErrFileWrite, "cannot write %s", path)
	}
	return nil
}
