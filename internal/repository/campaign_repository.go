package repository

import (
    "database/sql"
    "fmt"
    "strings"
    "time"

    "github.com/lib/pq"

    appErrors "github.com/unclebandit/campaign-manager-backend/internal/errors"
    "github.com/unclebandit/campaign-manager-backend/internal/model"
    "github.com/unclebandit/campaign-manager-backend/internal/validation"
)

type CampaignRepositoryInterface interface {
    List(status, category string) ([]*model.Campaign, error)
    GetByID(id string) (*model.Campaign, error)
    Create(c *model.Campaign) error
    Update(id string, fields *validation.UpdateData) (*model.Campaign, error)
    SoftDelete(id string) error
    BulkExpire(ids []string) error
    FindExpired(now time.Time) ([]*model.Campaign, error)
    Search(term string) ([]*model.Campaign, error)
}

type CampaignRepository struct {
    DB *sql.DB
}

// Column names are the camelCase identifiers the schema was created with,
// so everything except id/name/description/status/category needs quoting.
const campaignColumns = `id, name, description, status, category, "dateInsert", "dateInitial", "dateEnd"`

// Create inserts a new campaign. The store assigns dateInsert.
func (r *CampaignRepository) Create(c *model.Campaign) error {
    query := `INSERT INTO campaigns (id, name, description, status, category, "dateInitial", "dateEnd") VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING "dateInsert"`
    return r.DB.QueryRow(query, c.ID, c.Name, c.Description, c.Status, c.Category, c.DateInitial, c.DateEnd).Scan(&c.DateInsert)
}

func (r *CampaignRepository) GetByID(id string) (*model.Campaign, error) {
    query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1 AND "deletedAt" IS NULL`
    var c model.Campaign
    err := r.DB.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.Description, &c.Status, &c.Category, &c.DateInsert, &c.DateInitial, &c.DateEnd)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewCampaignNotFound(id)
        }
        return nil, err
    }
    return &c, nil
}

// List returns live campaigns, optionally filtered by status and category,
// oldest first.
func (r *CampaignRepository) List(status, category string) ([]*model.Campaign, error) {
    query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE "deletedAt" IS NULL`
    args := []interface{}{}
    argPos := 1

    if status != "" {
        query += fmt.Sprintf(" AND status=$%d", argPos)
        args = append(args, status)
        argPos++
    }
    if category != "" {
        query += fmt.Sprintf(" AND category=$%d", argPos)
        args = append(args, category)
        argPos++
    }

    query += ` ORDER BY "dateInsert" ASC`

    rows, err := r.DB.Query(query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    return collectCampaigns(rows)
}

// Update applies exactly the fields present in the payload. Absent fields
// are left untouched by the store, not overwritten with old values.
func (r *CampaignRepository) Update(id string, fields *validation.UpdateData) (*model.Campaign, error) {
    if fields.Empty() {
        return r.GetByID(id)
    }

    sets := []string{}
    args := []interface{}{}
    argPos := 1

    addSet := func(col string, val interface{}) {
        sets = append(sets, fmt.Sprintf("%s=$%d", col, argPos))
        args = append(args, val)
        argPos++
    }

    if fields.Name != nil {
        addSet("name", *fields.Name)
    }
    if fields.Description != nil {
        addSet("description", *fields.Description)
    }
    if fields.Status != nil {
        addSet("status", *fields.Status)
    }
    if fields.DateInitial != nil {
        addSet(`"dateInitial"`, *fields.DateInitial)
    }
    if fields.DateEnd != nil {
        addSet(`"dateEnd"`, *fields.DateEnd)
    }

    query := fmt.Sprintf(`UPDATE campaigns SET %s WHERE id=$%d AND "deletedAt" IS NULL RETURNING `+campaignColumns, strings.Join(sets, ", "), argPos)
    args = append(args, id)

    var c model.Campaign
    err := r.DB.QueryRow(query, args...).Scan(&c.ID, &c.Name, &c.Description, &c.Status, &c.Category, &c.DateInsert, &c.DateInitial, &c.DateEnd)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewCampaignNotFound(id)
        }
        return nil, err
    }
    return &c, nil
}

// SoftDelete marks the row deleted and forces the terminal status. The row
// stays in the table for history.
func (r *CampaignRepository) SoftDelete(id string) error {
    query := `UPDATE campaigns SET "deletedAt"=NOW(), status=$1 WHERE id=$2 AND "deletedAt" IS NULL`
    res, err := r.DB.Exec(query, model.StatusExpirada, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return appErrors.NewCampaignNotFound(id)
    }
    return nil
}

// BulkExpire flips status for exactly the given ids. deletedAt is not
// touched.
func (r *CampaignRepository) BulkExpire(ids []string) error {
    query := `UPDATE campaigns SET status=$1 WHERE id = ANY($2)`
    _, err := r.DB.Exec(query, model.StatusExpirada, pq.Array(ids))
    return err
}

// FindExpired returns live campaigns whose end date has passed and that
// are not already expired.
func (r *CampaignRepository) FindExpired(now time.Time) ([]*model.Campaign, error) {
    query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE "deletedAt" IS NULL AND "dateEnd" < $1 AND status <> $2`
    rows, err := r.DB.Query(query, now, model.StatusExpirada)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    return collectCampaigns(rows)
}

// Search matches the term against id and name with the store's native
// contains operator (LIKE, case sensitive).
func (r *CampaignRepository) Search(term string) ([]*model.Campaign, error) {
    query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE "deletedAt" IS NULL AND (id LIKE '%' || $1 || '%' OR name LIKE '%' || $1 || '%') ORDER BY "dateInsert" ASC`
    rows, err := r.DB.Query(query, term)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    return collectCampaigns(rows)
}

func collectCampaigns(rows *sql.Rows) ([]*model.Campaign, error) {
    campaigns := []*model.Campaign{}
    for rows.Next() {
        c := &model.Campaign{}
        if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Status, &c.Category, &c.DateInsert, &c.DateInitial, &c.DateEnd); err != nil {
            return nil, err
        }
        campaigns = append(campaigns, c)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return campaigns, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
