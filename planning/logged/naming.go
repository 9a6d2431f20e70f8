package logged

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const (
	recordExt         = ".yaml"
	stampLayout       = "20060102-150405"
	maxCreateAttempts = 4
)

// RecordName returns the file name for a call started at t:
// <prefix>-YYYYMMDD-HHMMSS.<microseconds>.yaml in local time.
func RecordName(prefix string, t time.Time) string {
	t = t.Local()
	return fmt.Sprintf("%s-%s.%06d%s", prefix, t.Format(stampLayout), t.Nanosecond()/int(time.Microsecond), recordExt)
}

func disambiguate(name string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return strings.TrimSuffix(name, recordExt) + "-" + suffix + recordExt
}

// createRecordFile exclusively creates the record file. An existing file is never overwritten:
// with disambiguation on, a random suffix is tried instead.
func createRecordFile(fs afero.Fs, dir, name string, allowSuffix bool) (afero.File, string, error) {
	candidate := name
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		path := filepath.Join(dir, candidate)
		f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !os.IsExist(err) || !allowSuffix {
			return nil, "", errors.Wrapf(err, "creating planning record %q", path)
		}
		candidate = disambiguate(name)
	}
	return nil, "", errors.Errorf("could not find a free planning record name for %q", name)
}
