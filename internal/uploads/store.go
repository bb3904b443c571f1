package uploads

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"busbooking/internal/domain"
)

// Store saves customer document uploads (ID card photos and the like)
// under one directory with collision-proof names.
type Store struct {
	Dir     string
	MaxSize int64
}

const defaultMaxSize = 5 << 20 // 5MB

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("buat direktori upload: %w", err)
	}
	return &Store{Dir: dir, MaxSize: defaultMaxSize}, nil
}

// Save writes data under a unique name derived from the original filename,
// the booking id, and a short content hash.
func (s *Store) Save(filename string, data []byte, bookingID string) (string, error) {
	if len(data) == 0 {
		return "", domain.ValidationError{Field: "file", Msg: "kosong"}
	}
	if s.MaxSize > 0 && int64(len(data)) > s.MaxSize {
		return "", domain.ValidationError{Field: "file", Msg: fmt.Sprintf("melebihi %d byte", s.MaxSize)}
	}

	base := filepath.Base(strings.TrimSpace(filename))
	ext := strings.ToLower(filepath.Ext(base))
	if !allowedExtensions[ext] {
		return "", domain.ValidationError{Field: "file", Msg: "tipe file tidak didukung"}
	}
	name := sanitize(strings.TrimSuffix(base, filepath.Ext(base)))

	sum := md5.Sum(data)
	hash := hex.EncodeToString(sum[:])[:8]

	unique := fmt.Sprintf("%s_%s%s", name, hash, ext)
	if bookingID != "" {
		unique = fmt.Sprintf("%s_%s_%s%s", sanitize(bookingID), name, hash, ext)
	}

	path := filepath.Join(s.Dir, unique)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", domain.InternalError{Msg: "gagal simpan file", Err: err}
	}
	return unique, nil
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
