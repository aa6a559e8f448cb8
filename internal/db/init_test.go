package db

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/RezaEskandarii/jobconsole/internal/lock"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLockManager struct {
	acquireErr error
	releaseErr error
	acquired   []int
	released   []int
}

func (m *mockLockManager) Acquire(ctx context.Context, lockID int) error {
	m.acquired = append(m.acquired, lockID)
	return m.acquireErr
}

func (m *mockLockManager) Release(ctx context.Context, lockID int) error {
	m.released = append(m.released, lockID)
	return m.releaseErr
}

func TestReadSQLScripts(t *testing.T) {
	scripts, err := readSQLScripts()
	require.NoError(t, err)
	require.Len(t, scripts, 4) // jobs, apps, users, job_triggers
	assert.Equal(t, "001_jobs.sql", scripts[0].name)
	assert.Contains(t, scripts[0].body, "jobconsole.jobs")
}

func TestInit_LockAcquireFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	logger, _ := test.NewNullLogger()

	lockMgr := &mockLockManager{acquireErr: errors.New("lock busy")}
	err = Init(context.Background(), db, lockMgr, logger)
	assert.Error(t, err)
	assert.Empty(t, lockMgr.released)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInit_RunsScriptsUnderLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	logger, _ := test.NewNullLogger()

	scripts, err := readSQLScripts()
	require.NoError(t, err)

	mock.ExpectExec("CREATE SCHEMA IF NOT EXISTS jobconsole").WillReturnResult(sqlmock.NewResult(0, 0))
	for _, s := range scripts {
		mock.ExpectExec(regexp.QuoteMeta(s.body)).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	lockMgr := &mockLockManager{}
	require.NoError(t, Init(context.Background(), db, lockMgr, logger))
	assert.Equal(t, lockMgr.acquired, lockMgr.released)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInit_ScriptFailureReleasesLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	logger, _ := test.NewNullLogger()

	mock.ExpectExec("CREATE SCHEMA").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS jobconsole.jobs").WillReturnError(errors.New("permission denied"))

	lockMgr := &mockLockManager{}
	err = Init(context.Background(), db, lockMgr, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_jobs.sql")
	assert.Len(t, lockMgr.released, 1)
}

var _ lock.DistributedLockManager = (*mockLockManager)(nil)
