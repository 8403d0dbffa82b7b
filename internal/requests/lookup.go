package requests

import (
	"context"

	"github.com/seminaires/backend/internal/models"
	"github.com/seminaires/backend/pkg/apperr"
)

// Lookup actions accepted by POST /demandes.
const (
	ActionReferences    = "get_references"
	ActionThemes        = "get_themes"
	ActionOrganizations = "get_organismes"
)

// LookupRequest is the JSON body of POST /demandes.
type LookupRequest struct {
	Action    string `json:"action"`
	Type      string `json:"type"`
	Reference string `json:"reference"`
	Country   string `json:"pays"`
}

// SeminarIndex answers the seminar side of the cascading dropdowns
// (implemented by *seminars.Repository).
type SeminarIndex interface {
	ReferencesByType(ctx context.Context, trainingType string) ([]string, error)
	ThemesByReference(ctx context.Context, reference string) ([]string, error)
}

// OrganizationIndex lists organization names per country
// (implemented by *organizations.Repository).
type OrganizationIndex interface {
	NamesByCountry(ctx context.Context, country string) ([]string, error)
}

// Lookup serves the dependent dropdown values of the requests form.
type Lookup struct {
	seminars      SeminarIndex
	organizations OrganizationIndex
}

// NewLookup creates the lookup service.
func NewLookup(seminars SeminarIndex, organizations OrganizationIndex) *Lookup {
	return &Lookup{seminars: seminars, organizations: organizations}
}

// Do runs one lookup action. The result is duplicate-free, keeps the store's
// ascending order and is never nil.
func (l *Lookup) Do(ctx context.Context, sess models.Session, req LookupRequest) ([]string, error) {
	if !sess.Valid() {
		return nil, apperr.ErrUnauthorized
	}
	var (
		values []string
		err    error
	)
	switch req.Action {
	case ActionReferences:
		values, err = l.seminars.ReferencesByType(ctx, req.Type)
	case ActionThemes:
		values, err = l.seminars.ThemesByReference(ctx, req.Reference)
	case ActionOrganizations:
		values, err = l.organizations.NamesByCountry(ctx, req.Country)
	default:
		return nil, apperr.InvalidRequest("Action non reconnue")
	}
	if err != nil {
		return nil, err
	}
	return unique(values), nil
}

// unique drops repeated values, keeping the first occurrence.
func unique(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
