package health

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/dd0wney/cluso-strata/pkg/authority"
)

// FileCheck reports whether path exists and is a regular file. A
// missing optional file only degrades the result.
func FileCheck(path string, required bool) CheckFunc {
	return func(ctx context.Context) Check {
		check := Check{Details: map[string]any{"path": path, "required": required}}

		info, err := os.Stat(path)
		switch {
		case errors.Is(err, os.ErrNotExist) && !required:
			check.Status = StatusDegraded
			check.Message = "Optional file absent"
		case err != nil:
			check.Status = StatusUnhealthy
			check.Message = err.Error()
		case info.IsDir():
			check.Status = StatusUnhealthy
			check.Message = "Path is a directory"
		default:
			check.Status = StatusHealthy
			check.Details["size_bytes"] = info.Size()
		}
		return check
	}
}

// WritableDirCheck creates dir if needed and writes a scratch file into it.
func WritableDirCheck(dir string) CheckFunc {
	return func(ctx context.Context) Check {
		check := Check{Details: map[string]any{"path": dir}}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
			return check
		}
		scratch, err := os.CreateTemp(dir, ".preflight-*")
		if err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
			return check
		}
		scratch.Close()
		os.Remove(scratch.Name())

		check.Status = StatusHealthy
		check.Message = "Writable"
		return check
	}
}

// AuthorityCheck loads the authority table. A run continues without
// authority data, so failures degrade rather than fail.
func AuthorityCheck(src authority.Source, timeout time.Duration) CheckFunc {
	return func(ctx context.Context) Check {
		check := Check{Details: make(map[string]any)}
		if src == nil {
			check.Status = StatusHealthy
			check.Message = "Authority disabled"
			return check
		}
		check.Details["source"] = src.Name()

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		table, err := src.Load(ctx)
		switch {
		case err != nil:
			check.Status = StatusDegraded
			check.Message = err.Error()
		case table.Len() == 0:
			check.Status = StatusDegraded
			check.Message = "Authority table is empty"
		default:
			check.Status = StatusHealthy
			check.Details["pairs"] = table.Len()
		}
		return check
	}
}
