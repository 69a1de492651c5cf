// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package cloudstorage

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// fileClient operates on a local directory tree. It backs tests and local
// runs that bypass real cloud providers.
type fileClient struct {
	base string
}

func (c *fileClient) path(key string) string {
	return filepath.Join(c.base, filepath.FromSlash(key))
}

// List walks the tree under base/prefix. A missing root directory is an
// error so a bad input path fails the run instead of producing empty tables.
func (c *fileClient) List(ctx context.Context, prefix string) ([]Object, error) {
	root := c.path(prefix)
	var objects []Object
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(c.base, path)
		if err != nil {
			return err
		}
		objects = append(objects, Object{Key: filepath.ToSlash(rel), Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

func (c *fileClient) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return os.Open(c.path(key))
}

// Put copies a local file into the base/key location, creating parent
// directories as needed. An existing object is replaced.
func (c *fileClient) Put(ctx context.Context, key, sourceFilename string) error {
	dst := c.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	src, err := os.Open(sourceFilename)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	// Stage next to the destination and rename so readers never observe a
	// partially written object.
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+strings.TrimSuffix(filepath.Base(dst), filepath.Ext(dst))+".*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

// Delete removes the file at base/key if it exists, pruning directories the
// removal leaves empty so replaced partitions do not linger as husks.
func (c *fileClient) Delete(ctx context.Context, key string) error {
	path := c.path(key)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for dir := filepath.Dir(path); dir != c.base && strings.HasPrefix(dir, c.base); dir = filepath.Dir(dir) {
		if err := os.Remove(dir); err != nil {
			break // not empty
		}
	}
	return nil
}
