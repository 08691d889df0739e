package leadgen

import (
	"encoding/json"
	"fmt"
)

// Provider identifies a lead-form webhook source
type Provider string

const (
	ProviderMeta   Provider = "meta"
	ProviderGoogle Provider = "google"
)

// SignatureHeader returns the header the provider uses to carry its signature
func (p Provider) SignatureHeader() string {
	switch p {
	case ProviderMeta:
		return "X-Hub-Signature-256"
	case ProviderGoogle:
		return "X-Goog-Signature"
	default:
		return ""
	}
}

// ParseProvider validates a provider path parameter
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderMeta, ProviderGoogle:
		return Provider(s), nil
	default:
		return "", fmt.Errorf("unknown lead provider: %s", s)
	}
}

// LeadPayload is the normalized form of a provider lead submission
type LeadPayload struct {
	ContactName  string
	ContactEmail string
	ContactPhone string
	CompanyName  string
	CampaignID   string
}

// metaPayload mirrors the lead-form field list Meta posts
type metaPayload struct {
	FieldData []struct {
		Name   string   `json:"name"`
		Values []string `json:"values"`
	} `json:"field_data"`
	CampaignID string `json:"campaign_id"`
}

// googlePayload mirrors Google Lead Form webhook columns
type googlePayload struct {
	UserColumnData []struct {
		ColumnID string `json:"column_id"`
		Value    string `json:"string_value"`
	} `json:"user_column_data"`
	CampaignID int64 `json:"campaign_id"`
}

// ParsePayload normalizes a provider webhook body into a LeadPayload
func ParsePayload(provider Provider, body []byte) (*LeadPayload, error) {
	switch provider {
	case ProviderMeta:
		return parseMeta(body)
	case ProviderGoogle:
		return parseGoogle(body)
	default:
		return nil, fmt.Errorf("unknown lead provider: %s", provider)
	}
}

func parseMeta(body []byte) (*LeadPayload, error) {
	var p metaPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("invalid meta payload: %w", err)
	}

	lead := &LeadPayload{CampaignID: p.CampaignID}
	for _, f := range p.FieldData {
		if len(f.Values) == 0 {
			continue
		}
		switch f.Name {
		case "full_name":
			lead.ContactName = f.Values[0]
		case "email":
			lead.ContactEmail = f.Values[0]
		case "phone_number":
			lead.ContactPhone = f.Values[0]
		case "company_name":
			lead.CompanyName = f.Values[0]
		}
	}

	if lead.ContactEmail == "" && lead.ContactPhone == "" {
		return nil, fmt.Errorf("meta payload has no contact info")
	}
	return lead, nil
}

func parseGoogle(body []byte) (*LeadPayload, error) {
	var p googlePayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("invalid google payload: %w", err)
	}

	lead := &LeadPayload{}
	if p.CampaignID != 0 {
		lead.CampaignID = fmt.Sprintf("%d", p.CampaignID)
	}
	for _, c := range p.UserColumnData {
		switch c.ColumnID {
		case "FULL_NAME":
			lead.ContactName = c.Value
		case "EMAIL":
			lead.ContactEmail = c.Value
		case "PHONE_NUMBER":
			lead.ContactPhone = c.Value
		case "COMPANY_NAME":
			lead.CompanyName = c.Value
		}
	}

	if lead.ContactEmail == "" && lead.ContactPhone == "" {
		return nil, fmt.Errorf("google payload has no contact info")
	}
	return lead, nil
}
