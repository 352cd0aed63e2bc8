package database

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm/logger"
)

// QueryLog is one captured SQL statement with its outcome.
type QueryLog struct {
	ID        int           `json:"id"`
	SQL       string        `json:"sql"`
	Duration  time.Duration `json:"duration"`
	Rows      int64         `json:"rows"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// QueryLogger keeps a bounded, newest-first capture of executed SQL so
// the debug endpoints can show what a dataset load or an ingest batch
// actually ran against Postgres.
type QueryLogger struct {
	mu      sync.RWMutex
	entries []QueryLog
	limit   int
	nextID  int
}

// SQLLogger is the process-wide capture the GORM logger feeds.
var SQLLogger = NewQueryLogger(100)

// NewQueryLogger creates a capture holding at most limit statements.
func NewQueryLogger(limit int) *QueryLogger {
	return &QueryLogger{
		entries: make([]QueryLog, 0, limit),
		limit:   limit,
	}
}

// LogQuery records one statement. Once the bound is reached the oldest
// entry falls off.
func (ql *QueryLogger) LogQuery(sql string, duration time.Duration, rows int64, err error) {
	ql.mu.Lock()
	defer ql.mu.Unlock()

	ql.nextID++
	entry := QueryLog{
		ID:        ql.nextID,
		SQL:       sql,
		Duration:  duration,
		Rows:      rows,
		Timestamp: time.Now(),
	}
	if err != nil {
		entry.Error = err.Error()
	}

	// Newest first, so the request middleware can take the prefix that
	// appeared during its request.
	if len(ql.entries) < ql.limit {
		ql.entries = append(ql.entries, QueryLog{})
	}
	copy(ql.entries[1:], ql.entries)
	ql.entries[0] = entry
}

// GetQueries returns a copy of the captured statements, newest first.
func (ql *QueryLogger) GetQueries() []QueryLog {
	ql.mu.RLock()
	defer ql.mu.RUnlock()

	out := make([]QueryLog, len(ql.entries))
	copy(out, ql.entries)
	return out
}

// Clear drops every captured statement. The ID counter keeps running
// so entries stay distinguishable across clears.
func (ql *QueryLogger) Clear() {
	ql.mu.Lock()
	defer ql.mu.Unlock()
	ql.entries = ql.entries[:0]
}

// CustomGormLogger wraps the configured GORM logger and mirrors every
// traced statement into SQLLogger.
type CustomGormLogger struct {
	logger.Interface
}

// Trace implements logger.Interface.
func (l *CustomGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.Interface != nil {
		l.Interface.Trace(ctx, begin, fc, err)
	}

	sql, rows := fc()
	SQLLogger.LogQuery(sql, time.Since(begin), rows, err)
}
