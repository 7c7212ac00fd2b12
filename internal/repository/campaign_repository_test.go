package repository_test

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/campaign-manager-backend/internal/errors"
	"github.com/unclebandit/campaign-manager-backend/internal/model"
	"github.com/unclebandit/campaign-manager-backend/internal/repository"
	"github.com/unclebandit/campaign-manager-backend/internal/validation"
)

const selectColumns = `id, name, description, status, category, "dateInsert", "dateInitial", "dateEnd"`

func columnNames() []string {
	return []string{"id", "name", "description", "status", "category", "dateInsert", "dateInitial", "dateEnd"}
}

func newMockRepo(t *testing.T) (*repository.CampaignRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &repository.CampaignRepository{DB: db}, mock
}

func campaignRow(id, name string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(columnNames()).
		AddRow(id, name, "", "PAUSADA", "SEO", now, now, now.Add(24*time.Hour))
}

func TestListAppliesFilters(t *testing.T) {
	repo, mock := newMockRepo(t)

	query := `SELECT ` + selectColumns + ` FROM campaigns WHERE "deletedAt" IS NULL AND status=$1 AND category=$2 ORDER BY "dateInsert" ASC`
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("PAUSADA", "SEO").
		WillReturnRows(campaignRow("aaaa0001", "Campanha A"))

	campaigns, err := repo.List("PAUSADA", "SEO")
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.Equal(t, "aaaa0001", campaigns[0].ID)
	assert.Equal(t, model.StatusPausada, campaigns[0].Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListWithoutFilters(t *testing.T) {
	repo, mock := newMockRepo(t)

	query := `SELECT ` + selectColumns + ` FROM campaigns WHERE "deletedAt" IS NULL ORDER BY "dateInsert" ASC`
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(sqlmock.NewRows(columnNames()))

	campaigns, err := repo.List("", "")
	require.NoError(t, err)
	assert.NotNil(t, campaigns)
	assert.Empty(t, campaigns)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	query := `SELECT ` + selectColumns + ` FROM campaigns WHERE id=$1 AND "deletedAt" IS NULL`
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("missing1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID("missing1")
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStoreAssignsDateInsert(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	inserted := now.Truncate(time.Second)

	query := `INSERT INTO campaigns (id, name, description, status, category, "dateInitial", "dateEnd") VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING "dateInsert"`
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("k3J9x2Qa", "Campanha de SEO", "", "PAUSADA", "SEO", now, now.Add(24*time.Hour)).
		WillReturnRows(sqlmock.NewRows([]string{"dateInsert"}).AddRow(inserted))

	c := &model.Campaign{
		ID:          "k3J9x2Qa",
		Name:        "Campanha de SEO",
		Status:      model.StatusPausada,
		Category:    model.CategorySEO,
		DateInitial: now,
		DateEnd:     now.Add(24 * time.Hour),
	}
	require.NoError(t, repo.Create(c))
	assert.True(t, c.DateInsert.Equal(inserted))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBuildsPartialSet(t *testing.T) {
	repo, mock := newMockRepo(t)

	query := `UPDATE campaigns SET name=$1 WHERE id=$2 AND "deletedAt" IS NULL RETURNING ` + selectColumns
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("Campanha Renomeada", "k3J9x2Qa").
		WillReturnRows(campaignRow("k3J9x2Qa", "Campanha Renomeada"))

	name := "Campanha Renomeada"
	updated, err := repo.Update("k3J9x2Qa", &validation.UpdateData{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Campanha Renomeada", updated.Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNoFieldsFetchesCurrentRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	query := `SELECT ` + selectColumns + ` FROM campaigns WHERE id=$1 AND "deletedAt" IS NULL`
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("k3J9x2Qa").
		WillReturnRows(campaignRow("k3J9x2Qa", "Campanha A"))

	updated, err := repo.Update("k3J9x2Qa", &validation.UpdateData{})
	require.NoError(t, err)
	assert.Equal(t, "k3J9x2Qa", updated.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("UPDATE campaigns SET").
		WillReturnError(sql.ErrNoRows)

	name := "Campanha Renomeada"
	_, err := repo.Update("missing1", &validation.UpdateData{Name: &name})
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	query := `UPDATE campaigns SET "deletedAt"=NOW(), status=$1 WHERE id=$2 AND "deletedAt" IS NULL`
	mock.ExpectExec(regexp.QuoteMeta(query)).
		WithArgs("EXPIRADA", "k3J9x2Qa").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SoftDelete("k3J9x2Qa"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteAlreadyDeleted(t *testing.T) {
	repo, mock := newMockRepo(t)

	// a row that is already soft-deleted no longer matches the predicate
	mock.ExpectExec("UPDATE campaigns SET").
		WithArgs("EXPIRADA", "k3J9x2Qa").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete("k3J9x2Qa")
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkExpire(t *testing.T) {
	repo, mock := newMockRepo(t)
	ids := []string{"aaaa0001", "aaaa0002"}

	query := `UPDATE campaigns SET status=$1 WHERE id = ANY($2)`
	mock.ExpectExec(regexp.QuoteMeta(query)).
		WithArgs("EXPIRADA", pq.Array(ids)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.BulkExpire(ids))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindExpired(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	query := `SELECT ` + selectColumns + ` FROM campaigns WHERE "deletedAt" IS NULL AND "dateEnd" < $1 AND status <> $2`
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(now, "EXPIRADA").
		WillReturnRows(campaignRow("aaaa0001", "Encerrada"))

	campaigns, err := repo.FindExpired(now)
	require.NoError(t, err)
	require.Len(t, campaigns, 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchUsesContains(t *testing.T) {
	repo, mock := newMockRepo(t)

	query := `SELECT ` + selectColumns + ` FROM campaigns WHERE "deletedAt" IS NULL AND (id LIKE '%' || $1 || '%' OR name LIKE '%' || $1 || '%') ORDER BY "dateInsert" ASC`
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("Teste").
		WillReturnRows(campaignRow("abcTeste", "Campanha A"))

	campaigns, err := repo.Search("Teste")
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.Equal(t, "abcTeste", campaigns[0].ID)

	require.NoError(t, mock.ExpectationsWereMet())
}
