// internal/errors/errors.go
package appErrors

import "errors"

// ErrCampaignNotFound is returned when no live campaign matches an id.
// The message is what the HTTP layer passes through to the client.
type ErrCampaignNotFound struct {
    CampaignID string
}

func (e *ErrCampaignNotFound) Error() string {
    return "Campanha não encontrada"
}

// Helper constructor
func NewCampaignNotFound(id string) error {
    return &ErrCampaignNotFound{CampaignID: id}
}

// IsNotFound reports whether err wraps an ErrCampaignNotFound.
func IsNotFound(err error) bool {
    var nf *ErrCampaignNotFound
    return errors.As(err, &nf)
}

// ErrInvalidDateRange is the service-level re-check of the date ordering
// rule on update, fired after the current row has been fetched.
var ErrInvalidDateRange = errors.New("A data de expiração precisa ser maior que a data de início")
