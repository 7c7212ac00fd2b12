// internal/validation/validation.go
package validation

import (
    "fmt"
    "strconv"
    "strings"
    "time"
    "unicode/utf8"

    "github.com/unclebandit/campaign-manager-backend/internal/model"
)

// Messages are product copy shared with the frontend, keep them verbatim.
const (
    MsgNameTooShort = "Nome precisa ter pelo menos 3 caracteres"
    MsgDateEnd      = "A data de expiração da campanha precisa ser maior que a de início"
    MsgDateEndReq   = "A data de término da campanha é obrigatória"
)

// FieldError ties a message to the payload field that caused it.
type FieldError struct {
    Field   string `json:"field"`
    Message string `json:"message"`
}

// FieldErrors keeps every failed check. Callers surface the first message
// over HTTP but the full set stays available.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
    if len(e) == 0 {
        return "dados inválidos"
    }
    return e[0].Message
}

// DateTime accepts the date shapes the frontend actually sends: RFC3339,
// a bare date, or epoch milliseconds.
type DateTime struct {
    time.Time
}

var dateLayouts = []string{
    time.RFC3339Nano,
    time.RFC3339,
    "2006-01-02T15:04:05",
    "2006-01-02 15:04:05",
    "2006-01-02",
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
    s := strings.Trim(string(b), `"`)
    if s == "" || s == "null" {
        return nil
    }
    if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
        d.Time = time.UnixMilli(ms).UTC()
        return nil
    }
    for _, layout := range dateLayouts {
        if t, err := time.Parse(layout, s); err == nil {
            d.Time = t
            return nil
        }
    }
    return fmt.Errorf("data inválida: %q", s)
}

// CampaignPayload is the wire shape for create and update bodies. Fields
// stay nil when absent so update can tell "leave unchanged" apart from
// "set to empty".
type CampaignPayload struct {
    Name        *string   `json:"name"`
    Description *string   `json:"description"`
    Status      *string   `json:"status"`
    Category    *string   `json:"category"`
    DateInitial *DateTime `json:"dateInitial"`
    DateEnd     *DateTime `json:"dateEnd"`
}

// CreateData is a fully resolved campaign candidate: defaults applied,
// enum membership checked.
type CreateData struct {
    Name        string
    Description string
    Status      model.Status
    Category    model.Category
    DateInitial time.Time
    DateEnd     time.Time
}

// UpdateData carries only the fields present in the payload. Category is
// not updatable: the update contract never accepted it, so it is dropped
// here the same way.
type UpdateData struct {
    Name        *string
    Description *string
    Status      *model.Status
    DateInitial *time.Time
    DateEnd     *time.Time
}

// Empty reports whether the payload carried nothing to change.
func (u *UpdateData) Empty() bool {
    return u.Name == nil && u.Description == nil && u.Status == nil &&
        u.DateInitial == nil && u.DateEnd == nil
}

func statusMessage() string {
    vals := make([]string, 0, len(model.Statuses()))
    for _, s := range model.Statuses() {
        vals = append(vals, string(s))
    }
    return "Status inválido. Valores aceitos: " + strings.Join(vals, ", ")
}

func categoryMessage() string {
    vals := make([]string, 0, len(model.Categories()))
    for _, c := range model.Categories() {
        vals = append(vals, string(c))
    }
    return "Categoria inválida. Valores aceitos: " + strings.Join(vals, ", ")
}

// ValidateCreate checks a create payload and resolves defaults: status
// falls back to PAUSADA and dateInitial to now. The date ordering rule
// runs whenever both dates resolved, even if another field already failed.
func ValidateCreate(p CampaignPayload, now time.Time) (*CreateData, FieldErrors) {
    var errs FieldErrors

    data := &CreateData{
        Status:      model.StatusPausada,
        DateInitial: now,
    }

    if p.Name == nil || utf8.RuneCountInString(*p.Name) < 3 {
        errs = append(errs, FieldError{Field: "name", Message: MsgNameTooShort})
    } else {
        data.Name = *p.Name
    }

    if p.Description != nil {
        data.Description = *p.Description
    }

    if p.Status != nil {
        st := model.Status(*p.Status)
        if !st.Valid() {
            errs = append(errs, FieldError{Field: "status", Message: statusMessage()})
        } else {
            data.Status = st
        }
    }

    if p.Category == nil || !model.Category(*p.Category).Valid() {
        errs = append(errs, FieldError{Field: "category", Message: categoryMessage()})
    } else {
        data.Category = model.Category(*p.Category)
    }

    if p.DateInitial != nil {
        data.DateInitial = p.DateInitial.Time
    }

    if p.DateEnd == nil {
        errs = append(errs, FieldError{Field: "dateEnd", Message: MsgDateEndReq})
    } else {
        data.DateEnd = p.DateEnd.Time
        if !data.DateEnd.After(data.DateInitial) {
            errs = append(errs, FieldError{Field: "dateEnd", Message: MsgDateEnd})
        }
    }

    if len(errs) > 0 {
        return nil, errs
    }
    return data, nil
}

// ValidateUpdate checks an update payload. Every field is optional and no
// default is substituted; the date ordering rule only fires when both
// dates travel in the same payload.
func ValidateUpdate(p CampaignPayload) (*UpdateData, FieldErrors) {
    var errs FieldErrors

    data := &UpdateData{}

    if p.Name != nil {
        if utf8.RuneCountInString(*p.Name) < 3 {
            errs = append(errs, FieldError{Field: "name", Message: MsgNameTooShort})
        } else {
            data.Name = p.Name
        }
    }

    if p.Description != nil {
        data.Description = p.Description
    }

    if p.Status != nil {
        st := model.Status(*p.Status)
        if !st.Valid() {
            errs = append(errs, FieldError{Field: "status", Message: statusMessage()})
        } else {
            data.Status = &st
        }
    }

    if p.DateInitial != nil {
        t := p.DateInitial.Time
        data.DateInitial = &t
    }
    if p.DateEnd != nil {
        t := p.DateEnd.Time
        data.DateEnd = &t
    }

    if data.DateEnd != nil && data.DateInitial != nil && !data.DateEnd.After(*data.DateInitial) {
        errs = append(errs, FieldError{Field: "dateEnd", Message: MsgDateEnd})
    }

    if len(errs) > 0 {
        return nil, errs
    }
    return data, nil
}
