package reference

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/core/ports"
	"github.com/acrossmena/hs-classifier/internal/infrastructure/repository/postgres"
)

type Options struct {
	Sheet   string
	Table   string
	Columns Columns
}

// Open selects a reference source by location: a postgres DSN, or a path
// ending in .xlsx, .xlsm or .csv. The returned close func releases any
// connection held by the source.
func Open(location string, opts Options) (ports.ReferenceSource, func() error, error) {
	location = strings.TrimSpace(location)
	noop := func() error { return nil }
	if location == "" {
		return nil, noop, domain.WrapError(domain.ErrConfig, "open reference source", fmt.Errorf("location is empty"))
	}

	if strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://") {
		db, err := postgres.OpenDB(location)
		if err != nil {
			return nil, noop, domain.WrapError(domain.ErrReferenceUnavailable, "open reference source", err)
		}
		repo, err := postgres.NewReferenceRepository(db, opts.Table)
		if err != nil {
			_ = db.Close()
			return nil, noop, domain.WrapError(domain.ErrConfig, "open reference source", err)
		}
		return repo, db.Close, nil
	}

	switch strings.ToLower(filepath.Ext(location)) {
	case ".xlsx", ".xlsm":
		return XLSXSource{Path: location, Sheet: opts.Sheet, Columns: opts.Columns}, noop, nil
	case ".csv":
		return CSVSource{Path: location, Columns: opts.Columns}, noop, nil
	default:
		return nil, noop, domain.WrapError(domain.ErrConfig, "open reference source", fmt.Errorf("unsupported reference location %q", location))
	}
}
