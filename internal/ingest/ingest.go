package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Tiliavir/toggl-timesheet/internal/storage"
	"github.com/Tiliavir/toggl-timesheet/internal/timecalc"
	"github.com/Tiliavir/toggl-timesheet/internal/toggl"
)

// API is the part of the Toggl client the ingest job needs.
type API interface {
	Organizations(ctx context.Context) ([]toggl.Organization, error)
	Workspaces(ctx context.Context) ([]toggl.Workspace, error)
	TimeEntriesExport(ctx context.Context, workspaceID int64, r timecalc.DateRange) ([]byte, error)
}

// Options configures one ingest run.
type Options struct {
	OutputPath string
	Year       int
	Month      time.Month
	Logger     *slog.Logger
}

// Result lists what a run wrote.
type Result struct {
	WorkspaceID       int64
	Range             timecalc.DateRange
	OrganizationsPath string
	WorkspacesPath    string
	ExportPath        string
	ExportBytes       int
}

// Run fetches organizations, workspaces and the monthly detailed report one
// call after the other and writes them below opts.OutputPath. The first
// failure aborts the run; files written before it are left in place.
func Run(ctx context.Context, api API, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r, err := timecalc.MonthRange(opts.Year, opts.Month)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		Range:             r,
		OrganizationsPath: storage.OrganizationsPath(opts.OutputPath),
		WorkspacesPath:    storage.WorkspacesPath(opts.OutputPath),
		ExportPath:        storage.ExportPath(opts.OutputPath, r),
	}

	orgs, err := api.Organizations(ctx)
	if err != nil {
		return res, err
	}
	if err := storage.SaveJSON(res.OrganizationsPath, orgs); err != nil {
		return res, err
	}
	logger.Info("organizations stored", "count", len(orgs), "path", res.OrganizationsPath)

	workspaces, err := api.Workspaces(ctx)
	if err != nil {
		return res, err
	}
	if err := storage.SaveJSON(res.WorkspacesPath, workspaces); err != nil {
		return res, err
	}
	logger.Info("workspaces stored", "count", len(workspaces), "path", res.WorkspacesPath)

	res.WorkspaceID, err = toggl.SelectAdminWorkspace(workspaces)
	if err != nil {
		return res, fmt.Errorf("selecting workspace among %d: %w", len(workspaces), err)
	}

	logger.Info("date range", "range", r.String(), "workspace_id", res.WorkspaceID)

	data, err := api.TimeEntriesExport(ctx, res.WorkspaceID, r)
	if err != nil {
		return res, err
	}
	if err := storage.SaveBytes(res.ExportPath, data); err != nil {
		return res, err
	}
	res.ExportBytes = len(data)
	logger.Info("report stored", "path", res.ExportPath, "bytes", res.ExportBytes)

	return res, nil
}
