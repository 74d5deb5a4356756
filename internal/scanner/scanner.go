package scanner

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Result is the size of one data path
type Result struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
	Files int64  `json:"files"`
}

// DirSize sums the sizes of the regular files below root. Symlinks are
// neither counted nor followed and special files are ignored. A root that is
// missing or not a directory yields an empty Result without error, and
// subdirectories that cannot be read are skipped.
func DirSize(ctx context.Context, root string, matcher *Matcher) (Result, error) {
	result := Result{Path: root}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return result, nil
	}
	// The root itself may be a symlink to the spool directory.
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return result, nil
	}

	err = filepath.WalkDir(walkRoot, func(current string, d fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if walkErr != nil {
			if d != nil && d.IsDir() && current != walkRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if current == walkRoot {
			return nil
		}

		if matcher != nil {
			rel, err := filepath.Rel(walkRoot, current)
			if err != nil {
				return err
			}
			if matcher.IsExcluded(path.Clean(filepath.ToSlash(rel)), d.IsDir()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			// Usually removed between listing and stat: the server just
			// forwarded the file to a shard.
			return nil
		}
		if fi.Mode().IsRegular() {
			result.Bytes += fi.Size()
			result.Files++
		}
		return nil
	})
	if err != nil {
		return Result{Path: root}, err
	}
	return result, nil
}
