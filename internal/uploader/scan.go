package uploader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Adda-Baaj/assets-client/internal/domain"
	"github.com/Adda-Baaj/assets-client/pkg/watches"
)

// listFiles returns the candidate files under w.Dir in lexical order. Hidden
// files and directories are skipped; subdirectories only when w.Recursive.
func listFiles(ctx context.Context, w watches.Watch) ([]domain.LocalFile, error) {
	root, err := filepath.Abs(w.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve watch dir: %w", err)
	}

	var files []domain.LocalFile
	err = filepath.WalkDir(root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if name == root {
			return nil
		}

		hidden := strings.HasPrefix(d.Name(), ".")
		if d.IsDir() {
			if hidden || !w.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden || !d.Type().IsRegular() || !w.Accepts(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, name)
		if err != nil {
			return err
		}
		files = append(files, domain.LocalFile{
			WatchID: w.ID,
			Path:    name,
			RelPath: filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// LedgerKey identifies a file across scans: its watch and its path under the
// watch root.
func LedgerKey(f domain.LocalFile) string {
	return f.WatchID + "|" + f.RelPath
}

// Fingerprint identifies one version of a file. Touching or resizing the file
// yields a new fingerprint, so its asset is updated.
func Fingerprint(f domain.LocalFile) string {
	h := sha256.New()
	h.Write([]byte(strconv.FormatInt(f.Size, 10)))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.FormatInt(f.ModTime.UnixNano(), 10)))
	return hex.EncodeToString(h.Sum(nil))
}

// targetFolder mirrors the file's sub-directory under the watch folder.
func targetFolder(w watches.Watch, f domain.LocalFile) string {
	if dir := f.Dir(); dir != "" {
		return path.Join(w.FolderPath, dir)
	}
	return w.FolderPath
}
