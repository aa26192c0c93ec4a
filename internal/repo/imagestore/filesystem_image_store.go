package imagestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mkrupp/homecase-camera/internal/domain"
	"github.com/mkrupp/homecase-camera/internal/infra/logging"
	"github.com/mkrupp/homecase-camera/internal/util/uuid"
)

// saveAttempts bounds how often Save regenerates a filename after a collision.
// With 80 random bits per name a single retry is already paranoia.
const saveAttempts = 3

// FileSystemStoreConfig holds configuration for the filesystem-backed image store.
type FileSystemStoreConfig struct {
	// Basedir is the flat directory all captured images are written to
	Basedir string `env:"STORAGE_DIR" default:"data/images"`
}

// FileSystemStore implements Store on a single flat directory. Filenames are
// unique by construction and writes go through a temporary file plus rename,
// so concurrent saves, reads and deletes need no inter-file locking: readers
// never observe partial files, and a read racing a delete of the same file
// simply reports domain.ErrNotFound.
type FileSystemStore struct {
	cfg FileSystemStoreConfig
	log logging.Logger
}

var _ Store = (*FileSystemStore)(nil)

// NewFileSystemStore creates a FileSystemStore rooted at cfg.Basedir,
// creating the directory if needed.
func NewFileSystemStore(ctx context.Context, cfg FileSystemStoreConfig) (*FileSystemStore, error) {
	log := logging.GetLogger("repo.imagestore.filesystem_store").With(
		logging.Group("store", "basedir", cfg.Basedir),
	)

	if cfg.Basedir == "" {
		return nil, fmt.Errorf("%w: empty storage directory", domain.ErrStorage)
	}

	if err := os.MkdirAll(cfg.Basedir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: mkdir all: %w", domain.ErrStorage, err)
	}

	log.DebugContext(ctx, "image store ready")

	return &FileSystemStore{
		cfg: cfg,
		log: log,
	}, nil
}

// Save implements Store.Save. The image is written to a temporary file in the
// storage directory and renamed into place, so a partially written file is
// never visible under its final name.
func (store *FileSystemStore) Save(
	ctx context.Context,
	data []byte,
	format domain.Format,
) (img domain.StoredImage, err error) {
	defer func() {
		log := store.log.With(logging.Group("image", "filename", img.Filename, "format", format.String()))
		if err != nil {
			log.ErrorContext(ctx, "image save failed", "error", err)
		} else {
			log.DebugContext(ctx, "image saved", "size", img.SizeBytes)
		}
	}()

	filename, id, err := store.reserveFilename(format)
	if err != nil {
		return domain.StoredImage{}, err
	}

	if err := store.writeAtomic(filename, data); err != nil {
		return domain.StoredImage{}, err
	}

	return domain.StoredImage{
		Filename:  filename,
		Format:    format,
		SizeBytes: int64(len(data)),
		CreatedAt: id.Timestamp(),
	}, nil
}

// Read implements Store.Read.
func (store *FileSystemStore) Read(ctx context.Context, filename string) (data []byte, err error) {
	defer func() {
		log := store.log.With(logging.Group("image", "filename", filename))
		if err != nil {
			log.WarnContext(ctx, "image read failed", "error", err)
		} else {
			log.DebugContext(ctx, "image read", "size", len(data))
		}
	}()

	if _, _, err := parseImageFilename(filename); err != nil {
		return nil, err
	}

	data, err = os.ReadFile(filepath.Join(store.cfg.Basedir, filename))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, filename)
		}

		return nil, fmt.Errorf("%w: read: %w", domain.ErrStorage, err)
	}

	return data, nil
}

// ListExpired implements Store.ListExpired. File age is judged by mtime, which
// for files written by Save equals the capture time.
func (store *FileSystemStore) ListExpired(
	ctx context.Context,
	retention time.Duration,
) ([]domain.StoredImage, error) {
	entries, err := os.ReadDir(store.cfg.Basedir)
	if err != nil {
		return nil, fmt.Errorf("%w: read dir: %w", domain.ErrStorage, err)
	}

	var (
		now     = time.Now()
		expired []domain.StoredImage
	)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		id, format, err := parseImageFilename(entry.Name())
		if err != nil {
			// Foreign files (including in-flight temp files) are not ours to delete.
			continue
		}

		info, err := entry.Info()
		if err != nil {
			store.log.WarnContext(ctx, "stat failed during listing",
				logging.Group("image", "filename", entry.Name()), "error", err)

			continue
		}

		if now.Sub(info.ModTime()) < retention {
			continue
		}

		expired = append(expired, domain.StoredImage{
			Filename:  entry.Name(),
			Format:    format,
			SizeBytes: info.Size(),
			CreatedAt: id.Timestamp(),
		})
	}

	return expired, nil
}

// Delete implements Store.Delete.
func (store *FileSystemStore) Delete(ctx context.Context, filename string) (err error) {
	defer func() {
		log := store.log.With(logging.Group("image", "filename", filename))
		if err != nil {
			log.ErrorContext(ctx, "image delete failed", "error", err)
		} else {
			log.DebugContext(ctx, "image deleted")
		}
	}()

	if _, _, err := parseImageFilename(filename); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(store.cfg.Basedir, filename)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: remove: %w", domain.ErrStorage, err)
	}

	return nil
}

// reserveFilename generates filenames until one does not yet exist in the
// directory. A collision never overwrites: the name is regenerated instead.
func (store *FileSystemStore) reserveFilename(format domain.Format) (string, uuid.UUID, error) {
	for range saveAttempts {
		filename, err := newImageFilename(format)
		if err != nil {
			return "", uuid.UUID{}, fmt.Errorf("%w: new filename: %w", domain.ErrStorage, err)
		}

		if _, err := os.Stat(filepath.Join(store.cfg.Basedir, filename)); err == nil {
			continue // collision, regenerate
		}

		id, _, err := parseImageFilename(filename)
		if err != nil {
			return "", uuid.UUID{}, fmt.Errorf("%w: parse filename: %w", domain.ErrStorage, err)
		}

		return filename, id, nil
	}

	return "", uuid.UUID{}, fmt.Errorf("%w: could not generate a unique filename", domain.ErrStorage)
}

func (store *FileSystemStore) writeAtomic(filename string, data []byte) error {
	tmp, err := os.CreateTemp(store.cfg.Basedir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp: %w", domain.ErrStorage, err)
	}

	defer func() {
		// No-ops once the rename has succeeded.
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("%w: write: %w", domain.ErrStorage, err)
	}

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %w", domain.ErrStorage, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", domain.ErrStorage, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(store.cfg.Basedir, filename)); err != nil {
		return fmt.Errorf("%w: rename: %w", domain.ErrStorage, err)
	}

	return nil
}
