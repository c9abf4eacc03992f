package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"zgony/domain/core"
	"zgony/internal"
	"zgony/internal/errors"
)

// YearPlaceholder is replaced by the four-digit year in every template
const YearPlaceholder = "{year}"

// Resolver finds a year's workbook by trying name templates in order
type Resolver struct {
	dir       string
	templates []string
	logger    *internal.Logger
}

// NewResolver validates that every template contains the year placeholder
func NewResolver(dir string, templates []string, logger *internal.Logger) (*Resolver, error) {
	if len(templates) == 0 {
		return nil, errors.InvalidInput("no file name templates configured")
	}
	for _, t := range templates {
		if !strings.Contains(t, YearPlaceholder) {
			return nil, errors.InvalidInput(fmt.Sprintf("file name template %q has no %s placeholder", t, YearPlaceholder))
		}
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Resolver{
		dir:       dir,
		templates: append([]string(nil), templates...),
		logger:    logger.With("Resolver"),
	}, nil
}

// Candidates returns the file names tried for year, in order
func (r *Resolver) Candidates(year int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range r.templates {
		name := strings.ReplaceAll(t, YearPlaceholder, strconv.Itoa(year))
		// archives unpacked on macOS store decomposed diacritics
		for _, form := range []string{name, norm.NFC.String(name), norm.NFD.String(name)} {
			if !seen[form] {
				seen[form] = true
				out = append(out, form)
			}
		}
	}
	return out
}

// Resolve returns the path of the first candidate that exists as a regular file
func (r *Resolver) Resolve(ctx context.Context, year int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	candidates := r.Candidates(year)
	for _, name := range candidates {
		path := filepath.Join(r.dir, name)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			r.logger.Trace("no %s", path)
			continue
		}
		r.logger.Debug("year %d resolved to %s", year, path)
		return path, nil
	}
	return "", core.NewFileNotFoundError(year, candidates)
}
