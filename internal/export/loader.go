package export

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	apperrors "github.com/burakmert236/firstblood/common/errors"
	"github.com/burakmert236/firstblood/common/logger"
	"github.com/burakmert236/firstblood/common/models"
	"github.com/burakmert236/firstblood/internal/firstblood"
	"github.com/spf13/afero"
	"github.com/spf13/afero/zipfs"
)

const dbDir = "db"

// Collection file names inside the export's db directory.
const (
	SolvesFile      = "solves.json"
	SubmissionsFile = "submissions.json"
	ChallengesFile  = "challenges.json"
	TeamsFile       = "teams.json"
	UsersFile       = "users.json"
)

// envelope is the top-level shape of every CTFd table dump.
type envelope struct {
	Results *[]json.RawMessage `json:"results"`
}

type Loader struct {
	fs     afero.Fs
	logger *logger.Logger
}

func NewLoader(fs afero.Fs, log *logger.Logger) *Loader {
	return &Loader{
		fs:     fs,
		logger: log.With("component", "ExportLoader"),
	}
}

// Load reads the five collections from a .zip export or an extracted
// export directory.
func (l *Loader) Load(ctx context.Context, source string) (firstblood.Dataset, error) {
	exportFs, closeFn, err := l.Open(source)
	if err != nil {
		return firstblood.Dataset{}, err
	}
	defer closeFn()

	return l.LoadFS(ctx, exportFs)
}

// Open returns a read-only view of the export rooted at its top level.
func (l *Loader) Open(source string) (afero.Fs, func() error, error) {
	info, err := l.fs.Stat(source)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeExportReadError,
			fmt.Sprintf("cannot open export %s", source))
	}

	if info.IsDir() {
		root := afero.NewReadOnlyFs(afero.NewBasePathFs(l.fs, source))
		return root, func() error { return nil }, nil
	}

	f, err := l.fs.Open(source)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeExportReadError,
			fmt.Sprintf("cannot open export %s", source))
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, nil, apperrors.Wrap(err, apperrors.CodeMalformedInput,
			fmt.Sprintf("%s is neither a directory nor a zip archive", source))
	}

	var root afero.Fs = zipfs.New(zr)
	if prefix := archivePrefix(zr); prefix != "" {
		root = afero.NewBasePathFs(root, "/"+prefix)
	}

	return root, f.Close, nil
}

// archivePrefix returns the folder wrapping the db directory inside the
// archive, or "" when db sits at the archive root.
func archivePrefix(zr *zip.Reader) string {
	suffix := path.Join(dbDir, UsersFile)
	for _, entry := range zr.File {
		name := strings.TrimPrefix(entry.Name, "/")
		if name == suffix {
			return ""
		}
		if strings.HasSuffix(name, "/"+suffix) {
			return strings.TrimSuffix(name, "/"+suffix)
		}
	}
	return ""
}

// LoadFS reads the collections from an already opened export.
func (l *Loader) LoadFS(ctx context.Context, exportFs afero.Fs) (firstblood.Dataset, error) {
	dir, err := locateDB(exportFs)
	if err != nil {
		return firstblood.Dataset{}, err
	}

	var ds firstblood.Dataset

	if ds.Solves, err = loadCollection[models.Solve](ctx, l, exportFs, dir, SolvesFile); err != nil {
		return firstblood.Dataset{}, err
	}
	if ds.Submissions, err = loadCollection[models.Submission](ctx, l, exportFs, dir, SubmissionsFile); err != nil {
		return firstblood.Dataset{}, err
	}
	if ds.Challenges, err = loadCollection[models.Challenge](ctx, l, exportFs, dir, ChallengesFile); err != nil {
		return firstblood.Dataset{}, err
	}
	if ds.Teams, err = loadCollection[models.Team](ctx, l, exportFs, dir, TeamsFile); err != nil {
		return firstblood.Dataset{}, err
	}
	if ds.Users, err = loadCollection[models.User](ctx, l, exportFs, dir, UsersFile); err != nil {
		return firstblood.Dataset{}, err
	}

	return ds, nil
}

// locateDB finds the db directory at the export root or one level down,
// as produced by exports that wrap everything in a folder.
func locateDB(exportFs afero.Fs) (string, error) {
	if ok, _ := afero.Exists(exportFs, path.Join(dbDir, UsersFile)); ok {
		return dbDir, nil
	}

	matches, err := afero.Glob(exportFs, path.Join("*", dbDir, UsersFile))
	if err == nil && len(matches) > 0 {
		return path.Dir(matches[0]), nil
	}

	return "", apperrors.New(apperrors.CodeMalformedInput, "export has no db directory")
}

func loadCollection[T any](ctx context.Context, l *Loader, exportFs afero.Fs, dir, file string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := path.Join(dir, file)

	data, err := afero.ReadFile(exportFs, name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.Wrap(err, apperrors.CodeMalformedInput,
				fmt.Sprintf("%s: collection missing from export", file))
		}
		return nil, apperrors.Wrap(err, apperrors.CodeExportReadError,
			fmt.Sprintf("%s: failed to read collection", file))
	}

	records, skipped, err := DecodeCollection[T](data)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeMalformedInput, file)
	}

	if skipped > 0 {
		l.logger.Warn("Skipped undecodable records",
			"collection", strings.TrimSuffix(file, ".json"),
			"skipped", skipped,
		)
	}
	l.logger.Debug("Collection loaded",
		"collection", strings.TrimSuffix(file, ".json"),
		"records", len(records),
	)

	return records, nil
}

// DecodeCollection parses a table dump of the form {"results": [...]}.
// A record that cannot be decoded is skipped and counted; a document
// without a results array is an error.
func DecodeCollection[T any](data []byte) ([]T, int, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, 0, fmt.Errorf("not a JSON object: %w", err)
	}
	if env.Results == nil {
		return nil, 0, fmt.Errorf("missing top-level results")
	}

	records := make([]T, 0, len(*env.Results))
	skipped := 0
	for _, raw := range *env.Results {
		var record T
		if err := json.Unmarshal(raw, &record); err != nil {
			skipped++
			continue
		}
		records = append(records, record)
	}

	return records, skipped, nil
}
