// internal/service/campaign_service.go
package service

import (
    "log"
    "time"

    gonanoid "github.com/matoous/go-nanoid/v2"

    appErrors "github.com/unclebandit/campaign-manager-backend/internal/errors"
    "github.com/unclebandit/campaign-manager-backend/internal/model"
    "github.com/unclebandit/campaign-manager-backend/internal/queue"
    "github.com/unclebandit/campaign-manager-backend/internal/repository"
    "github.com/unclebandit/campaign-manager-backend/internal/validation"
)

// campaignIDLength matches the short opaque ids the system has always used.
const campaignIDLength = 8

type CampaignService struct {
    CampaignRepo repository.CampaignRepositoryInterface
    Queue        queue.Queue
}

// ListCampaigns returns live campaigns, optionally filtered. Empty filter
// values mean no restriction on that field.
func (s *CampaignService) ListCampaigns(status, category string) ([]*model.Campaign, error) {
    return s.CampaignRepo.List(status, category)
}

func (s *CampaignService) GetCampaign(id string) (*model.Campaign, error) {
    return s.CampaignRepo.GetByID(id)
}

// CreateCampaign validates the payload, assigns a fresh id and persists
// the campaign. The store assigns dateInsert.
func (s *CampaignService) CreateCampaign(payload validation.CampaignPayload) (*model.Campaign, error) {
    data, errs := validation.ValidateCreate(payload, time.Now())
    if len(errs) > 0 {
        return nil, errs
    }

    id, err := gonanoid.New(campaignIDLength)
    if err != nil {
        return nil, err
    }

    c := &model.Campaign{
        ID:          id,
        Name:        data.Name,
        Description: data.Description,
        Status:      data.Status,
        Category:    data.Category,
        DateInitial: data.DateInitial,
        DateEnd:     data.DateEnd,
    }

    if err := s.CampaignRepo.Create(c); err != nil {
        return nil, err
    }

    s.publish(queue.EventCreated, c)
    return c, nil
}

// UpdateCampaign validates first, independent of the current row, then
// fetches it so an unknown id fails before anything is written. The date
// ordering rule is re-checked here even though validation already ran:
// when only one date travels in the payload neither check fires, and the
// new end date is applied against the stored start date as-is.
func (s *CampaignService) UpdateCampaign(id string, payload validation.CampaignPayload) (*model.Campaign, error) {
    data, errs := validation.ValidateUpdate(payload)
    if len(errs) > 0 {
        return nil, errs
    }

    if _, err := s.CampaignRepo.GetByID(id); err != nil {
        return nil, err
    }

    if data.DateEnd != nil && data.DateInitial != nil && !data.DateEnd.After(*data.DateInitial) {
        return nil, appErrors.ErrInvalidDateRange
    }

    updated, err := s.CampaignRepo.Update(id, data)
    if err != nil {
        return nil, err
    }

    s.publish(queue.EventUpdated, updated)
    return updated, nil
}

// DeleteCampaign soft-deletes: the row keeps existing with deletedAt set
// and status forced to EXPIRADA. Deleting an already-deleted id fails
// with not found.
func (s *CampaignService) DeleteCampaign(id string) error {
    c, err := s.CampaignRepo.GetByID(id)
    if err != nil {
        return err
    }

    if err := s.CampaignRepo.SoftDelete(id); err != nil {
        return err
    }

    s.publish(queue.EventDeleted, c)
    return nil
}

// UpdateExpiredCampaigns flips every live, past-end-date campaign to
// EXPIRADA and returns how many were touched. Running it again with no
// time passing touches nothing.
func (s *CampaignService) UpdateExpiredCampaigns() (int, error) {
    expired, err := s.CampaignRepo.FindExpired(time.Now())
    if err != nil {
        return 0, err
    }

    if len(expired) == 0 {
        log.Println("Nenhuma campanha expirou")
        return 0, nil
    }

    ids := make([]string, len(expired))
    for i, c := range expired {
        ids[i] = c.ID
    }

    if err := s.CampaignRepo.BulkExpire(ids); err != nil {
        return 0, err
    }

    for _, c := range expired {
        s.publish(queue.EventExpired, c)
    }

    log.Printf("Atualizadas %d campanhas para EXPIRADA\n", len(expired))
    return len(expired), nil
}

// SearchCampaigns matches the term against id and name. The caller is
// responsible for rejecting an empty term.
func (s *CampaignService) SearchCampaigns(term string) ([]*model.Campaign, error) {
    return s.CampaignRepo.Search(term)
}

func (s *CampaignService) publish(eventType string, c *model.Campaign) {
    if s.Queue == nil {
        return
    }

    ev := queue.CampaignEvent{
        Type:       eventType,
        CampaignID: c.ID,
        Name:       c.Name,
        OccurredAt: time.Now(),
    }
    if err := s.Queue.Publish(queue.TopicCampaignEvents, ev); err != nil {
        log.Println("⚠️ failed to publish campaign event:", err)
    }
}
