// Package names provides sources for the security directory.
package names

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/etnz/twfolio"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/traditionalchinese"
)

// header is the exact header of a directory file.
var header = []string{"Code", "Name", "Market"}

var bom = []byte("\xef\xbb\xbf")

// File is a directory stored as a CSV file with columns Code, Name and
// Market. The file is UTF-8, with or without a byte order mark, or Big5.
type File struct {
	Path string
	log  zerolog.Logger
}

// NewFile returns the directory file at path.
func NewFile(path string, log zerolog.Logger) *File {
	return &File{Path: path, log: log.With().Str("component", "names").Logger()}
}

// Load reads the whole file. A missing file is an empty directory.
func (f *File) Load(context.Context) (map[twfolio.NameKey]string, error) {
	content, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		f.log.Warn().Str("path", f.Path).Msg("directory file does not exist, using an empty directory")
		return map[twfolio.NameKey]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %q: %w", f.Path, err)
	}
	content, err = decode(content)
	if err != nil {
		return nil, fmt.Errorf("cannot decode directory %q: %w", f.Path, err)
	}
	names, err := f.parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("directory %q: %w", f.Path, err)
	}
	f.log.Debug().Int("names", len(names)).Msg("directory loaded")
	return names, nil
}

// decode returns content as UTF-8.
func decode(content []byte) ([]byte, error) {
	content = bytes.TrimPrefix(content, bom)
	if utf8.Valid(content) {
		return content, nil
	}
	return traditionalchinese.Big5.NewDecoder().Bytes(content)
}

func (f *File) parse(r io.Reader) (map[twfolio.NameKey]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	got, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", twfolio.ErrMalformed)
	}
	if err != nil {
		return nil, err
	}
	for i := range got {
		got[i] = strings.TrimSpace(got[i])
	}
	if !slices.Equal(got, header) {
		return nil, fmt.Errorf("%w: header is %v, want %v", twfolio.ErrMalformed, got, header)
	}

	names := make(map[twfolio.NameKey]string)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < len(header) {
			f.log.Warn().Int("line", line).Msg("short row skipped")
			continue
		}
		market, err := twfolio.ParseMarket(record[2])
		if err != nil || strings.TrimSpace(record[2]) == "" {
			f.log.Warn().Int("line", line).Str("market", record[2]).Msg("row with unknown market skipped")
			continue
		}
		code := strings.TrimSpace(record[0])
		if code == "" {
			continue
		}
		names[twfolio.NameKey{Code: code, Market: market}] = strings.TrimSpace(record[1])
	}
	return names, nil
}

// Map is a static directory.
type Map map[twfolio.NameKey]string

// Load returns a copy of m.
func (m Map) Load(context.Context) (map[twfolio.NameKey]string, error) {
	cp := make(map[twfolio.NameKey]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp, nil
}
