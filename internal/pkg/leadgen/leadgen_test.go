package leadgen

import (
	"testing"
)

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"field_data":[]}`)
	secret := "webhook-secret"

	sig := Sign(body, secret)
	if !VerifySignature(body, sig, secret) {
		t.Error("valid signature rejected")
	}
	if !VerifySignature(body, "sha256="+sig, secret) {
		t.Error("prefixed signature rejected")
	}
	if VerifySignature(body, sig, "other-secret") {
		t.Error("signature accepted with wrong secret")
	}
	if VerifySignature([]byte(`tampered`), sig, secret) {
		t.Error("signature accepted for tampered body")
	}
	if VerifySignature(body, "", secret) {
		t.Error("empty signature accepted")
	}
}

func TestParseProvider(t *testing.T) {
	if p, err := ParseProvider("meta"); err != nil || p != ProviderMeta {
		t.Errorf("meta: got %v, %v", p, err)
	}
	if p, err := ParseProvider("google"); err != nil || p != ProviderGoogle {
		t.Errorf("google: got %v, %v", p, err)
	}
	if _, err := ParseProvider("linkedin"); err == nil {
		t.Error("unknown provider accepted")
	}
}

func TestParseMetaPayload(t *testing.T) {
	body := []byte(`{
		"campaign_id": "cmp-7",
		"field_data": [
			{"name": "full_name", "values": ["Dana Reyes"]},
			{"name": "email", "values": ["dana@example.com"]},
			{"name": "phone_number", "values": ["+15550100"]},
			{"name": "company_name", "values": ["Reyes Ltd"]},
			{"name": "favorite_color", "values": ["green"]}
		]
	}`)

	p, err := ParsePayload(ProviderMeta, body)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if p.ContactName != "Dana Reyes" || p.ContactEmail != "dana@example.com" ||
		p.ContactPhone != "+15550100" || p.CompanyName != "Reyes Ltd" || p.CampaignID != "cmp-7" {
		t.Errorf("payload mismatch: %+v", p)
	}
}

func TestParseMetaPayloadNoContact(t *testing.T) {
	body := []byte(`{"field_data":[{"name":"full_name","values":["Ghost"]}]}`)
	if _, err := ParsePayload(ProviderMeta, body); err == nil {
		t.Error("payload without email or phone accepted")
	}
}

func TestParseGooglePayload(t *testing.T) {
	body := []byte(`{
		"campaign_id": 991,
		"user_column_data": [
			{"column_id": "FULL_NAME", "string_value": "Sam Okafor"},
			{"column_id": "EMAIL", "string_value": "sam@example.com"},
			{"column_id": "PHONE_NUMBER", "string_value": "+15550101"}
		]
	}`)

	p, err := ParsePayload(ProviderGoogle, body)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if p.ContactName != "Sam Okafor" || p.ContactEmail != "sam@example.com" || p.CampaignID != "991" {
		t.Errorf("payload mismatch: %+v", p)
	}
}

func TestParsePayloadMalformed(t *testing.T) {
	if _, err := ParsePayload(ProviderMeta, []byte(`not json`)); err == nil {
		t.Error("malformed meta body accepted")
	}
	if _, err := ParsePayload(ProviderGoogle, []byte(`[]`)); err == nil {
		t.Error("malformed google body accepted")
	}
}
