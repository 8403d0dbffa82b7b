package models

import (
	"time"
)

// DateLayout is the wire format of every calendar date.
const DateLayout = "2006-01-02"

// ProformaStatus tracks whether the proforma invoice went out.
type ProformaStatus string

const (
	ProformaSent    ProformaStatus = "envoye"
	ProformaNotSent ProformaStatus = "non_envoye"
)

// FormStatus tracks whether the registration form came back.
type FormStatus string

const (
	FormReceived    FormStatus = "recue"
	FormNotReceived FormStatus = "non_recue"
)

// CertificateStatus tracks whether the attendance certificate went out.
type CertificateStatus string

const (
	CertificateSent    CertificateStatus = "envoyee"
	CertificateNotSent CertificateStatus = "non_envoyee"
)

// Valid reports whether s is a known value.
func (s ProformaStatus) Valid() bool { return s == ProformaSent || s == ProformaNotSent }

// Valid reports whether s is a known value.
func (s FormStatus) Valid() bool { return s == FormReceived || s == FormNotReceived }

// Valid reports whether s is a known value.
func (s CertificateStatus) Valid() bool { return s == CertificateSent || s == CertificateNotSent }

// Request ("demande") is a registration for a seminar. (Type, Reference, Theme)
// is unique. Country, Organization and Venue are names copied by value.
type Request struct {
	ID               int64
	Type             string
	Reference        string
	Theme            string
	Civility         string
	LastName         string
	FirstNames       string
	Phones           string
	Emails           string
	Country          string
	Organization     string
	Contact          string
	Venue            string
	StartDate        *time.Time
	EndDate          *time.Time
	Duration         string
	EmailReceivedOn  *time.Time
	AckReceivedOn    *time.Time
	Proforma         ProformaStatus
	RegistrationForm FormStatus
	Certificate      CertificateStatus
	CreatedAt        time.Time
}

// RequestView is the flattened record returned by list and filter endpoints.
// Absent dates are empty strings.
type RequestView struct {
	ID                  int64  `json:"id"`
	Type                string `json:"type"`
	Reference           string `json:"reference"`
	Theme               string `json:"theme"`
	Civilite            string `json:"civilite"`
	Nom                 string `json:"nom"`
	Prenoms             string `json:"prenoms"`
	Telephones          string `json:"telephones"`
	Emails              string `json:"emails"`
	Pays                string `json:"pays"`
	Organisme           string `json:"organisme"`
	Contact             string `json:"contact"`
	Lieu                string `json:"lieu"`
	DateDebut           string `json:"date_debut"`
	DateFin             string `json:"date_fin"`
	Duree               string `json:"duree"`
	DateReceptionEmail  string `json:"date_reception_email"`
	DateReceptionAccuse string `json:"date_reception_accuse"`
	Proforma            string `json:"proforma"`
	FicheInscription    string `json:"fiche_inscription"`
	Attestation         string `json:"attestation"`
	CreatedAt           string `json:"created_at"`
}

// View flattens r for JSON output.
func (r *Request) View() RequestView {
	return RequestView{
		ID:                  r.ID,
		Type:                r.Type,
		Reference:           r.Reference,
		Theme:               r.Theme,
		Civilite:            r.Civility,
		Nom:                 r.LastName,
		Prenoms:             r.FirstNames,
		Telephones:          r.Phones,
		Emails:              r.Emails,
		Pays:                r.Country,
		Organisme:           r.Organization,
		Contact:             r.Contact,
		Lieu:                r.Venue,
		DateDebut:           FormatDate(r.StartDate),
		DateFin:             FormatDate(r.EndDate),
		Duree:               r.Duration,
		DateReceptionEmail:  FormatDate(r.EmailReceivedOn),
		DateReceptionAccuse: FormatDate(r.AckReceivedOn),
		Proforma:            string(r.Proforma),
		FicheInscription:    string(r.RegistrationForm),
		Attestation:         string(r.Certificate),
		CreatedAt:           r.CreatedAt.Format(time.RFC3339),
	}
}

// FormatDate renders t as YYYY-MM-DD, or "" when t is nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD value.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
