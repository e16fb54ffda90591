package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/liftlens/croaudit/internal/compile"
	"github.com/liftlens/croaudit/internal/model"
)

// AuditDB provides SQLite-based storage for compiled audit runs.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all sites rather
// than one file per site. Comparing audits across time is the main
// query, and a single file keeps backup and cleanup trivial.
type AuditDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures AuditDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an AuditDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*AuditDB, error) {
	dbPath := filepath.Join(dbDir, "croaudit.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &AuditDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Close closes the database connection.
func (adb *AuditDB) Close() error {
	return adb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (adb *AuditDB) createTables() error {
	schema := `
	-- Audit runs store the full audit record as JSON plus summary columns
	-- so history listings never need to parse the payload.
	CREATE TABLE IF NOT EXISTS audits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site_url TEXT NOT NULL,
		site_name TEXT,
		audit_date TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		overall_score REAL,
		total_findings INTEGER NOT NULL DEFAULT 0,
		urgent_findings INTEGER NOT NULL DEFAULT 0,
		priority_summary TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audits_site ON audits(site_url);
	CREATE INDEX IF NOT EXISTS idx_audits_timestamp ON audits(timestamp);
	`

	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveAudit persists one compiled audit and returns its database ID.
func (adb *AuditDB) SaveAudit(ctx context.Context, audit *compile.CompiledAudit) (int64, error) {
	reportJSON, err := json.Marshal(audit.Report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize audit record: %w", err)
	}

	prioritySummary := make(map[string]int, len(audit.PriorityDistribution))
	for _, pc := range audit.PriorityDistribution {
		prioritySummary[pc.Priority.String()] = pc.Count
	}
	summaryJSON, _ := json.Marshal(prioritySummary) //nolint:errcheck,errchkjson // simple map; Marshal won't fail

	var overall sql.NullFloat64
	if audit.OverallDefined {
		overall = sql.NullFloat64{Float64: audit.OverallScore, Valid: true}
	}

	var auditDate string
	if !audit.Report.AuditDate.IsZero() {
		auditDate = audit.Report.AuditDate.Format("2006-01-02")
	}

	query := `
	INSERT INTO audits (site_url, site_name, audit_date, overall_score,
		total_findings, urgent_findings, priority_summary, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := adb.db.ExecContext(ctx, query,
		audit.Report.SiteURL,
		audit.Report.SiteName,
		auditDate,
		overall,
		audit.TotalFindings,
		audit.UrgentFindings,
		string(summaryJSON),
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save audit: %w", err)
	}

	return result.LastInsertId()
}

// GetLatestAudit retrieves the most recent audit record for a site.
// Returns nil without error when the site has no saved audits.
func (adb *AuditDB) GetLatestAudit(ctx context.Context, siteURL string) (*model.AuditReport, error) {
	query := `
	SELECT report_json FROM audits
	WHERE site_url = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`
	return adb.queryOneReport(ctx, query, siteURL)
}

// GetPreviousAudit retrieves the second most recent audit for a site,
// which is the natural baseline when comparing right after a save.
// Returns nil without error when no earlier audit exists.
func (adb *AuditDB) GetPreviousAudit(ctx context.Context, siteURL string) (*model.AuditReport, error) {
	query := `
	SELECT report_json FROM audits
	WHERE site_url = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1 OFFSET 1
	`
	return adb.queryOneReport(ctx, query, siteURL)
}

// GetAuditByID retrieves an audit record by its database ID.
// Returns nil without error when the ID does not exist.
func (adb *AuditDB) GetAuditByID(ctx context.Context, id int64) (*model.AuditReport, error) {
	query := `
	SELECT report_json FROM audits
	WHERE id = ?
	`
	return adb.queryOneReport(ctx, query, id)
}

// queryOneReport runs a single-row report_json query and decodes it.
func (adb *AuditDB) queryOneReport(ctx context.Context, query string, args ...any) (*model.AuditReport, error) {
	var reportJSON string
	err := adb.db.QueryRowContext(ctx, query, args...).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}

	var report model.AuditReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse audit record: %w", err)
	}
	return &report, nil
}

// ListSites returns every site with at least one saved audit, sorted.
func (adb *AuditDB) ListSites(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT site_url FROM audits
	ORDER BY site_url
	`

	rows, err := adb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []string
	for rows.Next() {
		var site string
		if err := rows.Scan(&site); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}

	return sites, rows.Err()
}

// AuditMetadata contains summary information about a saved audit.
// This is used for displaying audit history without loading the full record.
type AuditMetadata struct {
	// ID is the unique identifier of the audit in the database.
	ID int64

	// SiteURL is the audited storefront address.
	SiteURL string

	// SiteName is the display name at the time of the audit.
	SiteName string

	// AuditDate is the date the audit was performed, as recorded.
	AuditDate string

	// Timestamp is when the audit was saved.
	Timestamp time.Time

	// OverallScore is the site score. Only meaningful when OverallDefined.
	OverallScore float64

	// OverallDefined is false when the audit had no findings.
	OverallDefined bool

	// TotalFindings is the number of findings across all pages.
	TotalFindings int

	// UrgentFindings counts P0 and P1 findings.
	UrgentFindings int

	// PrioritySummary contains counts of findings by priority tier.
	PrioritySummary map[string]int
}

// GetAuditHistory retrieves audit metadata for a site, newest first.
// This is more efficient than loading full records when only metadata is
// needed.
func (adb *AuditDB) GetAuditHistory(ctx context.Context, siteURL string) ([]AuditMetadata, error) {
	query := `
	SELECT id, site_url, site_name, audit_date, timestamp,
		overall_score, total_findings, urgent_findings, priority_summary
	FROM audits
	WHERE site_url = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := adb.db.QueryContext(ctx, query, siteURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit history: %w", err)
	}
	defer rows.Close()

	var results []AuditMetadata
	for rows.Next() {
		var meta AuditMetadata
		var timestamp string
		var siteName, auditDate, summaryJSON sql.NullString
		var overall sql.NullFloat64

		if err := rows.Scan(&meta.ID, &meta.SiteURL, &siteName, &auditDate,
			&timestamp, &overall, &meta.TotalFindings, &meta.UrgentFindings,
			&summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.SiteName = siteName.String
		meta.AuditDate = auditDate.String
		meta.Timestamp = parseTimestamp(timestamp)
		if overall.Valid {
			meta.OverallScore = overall.Float64
			meta.OverallDefined = true
		}

		if summaryJSON.Valid && summaryJSON.String != "" {
			if err := json.Unmarshal([]byte(summaryJSON.String), &meta.PrioritySummary); err != nil {
				meta.PrioritySummary = make(map[string]int)
			}
		} else {
			meta.PrioritySummary = make(map[string]int)
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on
// configuration. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
