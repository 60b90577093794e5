package pipeline

import (
	"net/http"

	"github.com/dd0wney/cluso-strata/pkg/authority"
	"github.com/dd0wney/cluso-strata/pkg/config"
)

// AuthoritySource builds the configured reference table source, or nil
// when the authority is disabled.
func AuthoritySource(cfg config.AuthorityConfig) authority.Source {
	if !cfg.Enabled {
		return nil
	}
	switch cfg.Source {
	case config.SourceURL:
		return authority.NewHTTPSourceWithClient(cfg.URL, &http.Client{Timeout: cfg.Timeout})
	case config.SourcePostgres:
		return authority.NewPostgresSource(cfg.DSN, cfg.Table)
	default:
		return authority.NewFileSource(cfg.Path)
	}
}
