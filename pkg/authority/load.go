package authority

import (
	"context"
	"fmt"

	"github.com/dd0wney/cluso-strata/pkg/logging"
	"github.com/dd0wney/cluso-strata/pkg/metrics"
	"github.com/dd0wney/cluso-strata/pkg/strata"
)

// Load fetches the table from src. An unreachable or empty table is not
// an error: Load returns nil and a warning, and cycle breaking falls back
// to its no-authority policy. A nil src means no authority was configured.
func Load(ctx context.Context, src Source, logger logging.Logger, reg *metrics.Registry) (*Table, strata.Warnings) {
	if src == nil {
		return nil, nil
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	var warnings strata.Warnings
	table, err := src.Load(ctx)
	if err == nil && table.Len() == 0 {
		err = fmt.Errorf("%w: %s source returned no pairs", strata.ErrAuthorityUnavailable, src.Name())
	}
	if reg != nil {
		reg.RecordAuthorityLookup(src.Name(), err)
	}
	if err != nil {
		warnings.Add(strata.StageAuthority, strata.CodeAuthorityUnavailable, src.Name(),
			"authority table unavailable, using first-edge fallback: %v", err)
		logger.Warn("authority table unavailable",
			logging.String("source", src.Name()),
			logging.Error(err),
		)
		return nil, warnings
	}

	logger.Info("authority table loaded",
		logging.String("source", src.Name()),
		logging.Count(table.Len()),
	)
	return table, nil
}
