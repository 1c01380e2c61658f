package contracts

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		schema  string
		body    string
		wantErr bool
	}{
		"listing create ok": {
			schema: ListingCreate,
			body:   `{"title":"Loft","description":"Bright","address":"1 Main St","location":"old town","price":1200,"bedrooms":1,"bathrooms":1,"property_type":"apartment","amenities":["WiFi"],"transportation":{"bus":"Line 10"}}`,
		},
		"listing create missing price": {
			schema:  ListingCreate,
			body:    `{"title":"Loft","description":"Bright","address":"1 Main St","location":"old town","bedrooms":1,"bathrooms":1,"property_type":"apartment"}`,
			wantErr: true,
		},
		"listing create negative price": {
			schema:  ListingCreate,
			body:    `{"title":"Loft","description":"Bright","address":"1 Main St","location":"old town","price":-1,"bedrooms":1,"bathrooms":1,"property_type":"apartment"}`,
			wantErr: true,
		},
		"listing create unknown type": {
			schema:  ListingCreate,
			body:    `{"title":"Loft","description":"Bright","address":"1 Main St","location":"old town","price":1,"bedrooms":1,"bathrooms":1,"property_type":"castle"}`,
			wantErr: true,
		},
		"listing update partial": {
			schema: ListingUpdate,
			body:   `{"status":"rented"}`,
		},
		"listing update empty": {
			schema:  ListingUpdate,
			body:    `{}`,
			wantErr: true,
		},
		"listing update unknown field": {
			schema:  ListingUpdate,
			body:    `{"landlord_id":"x"}`,
			wantErr: true,
		},
		"review ok":            {schema: Review, body: `{"rating":5,"comment":"Great"}`},
		"review rating too high": {schema: Review, body: `{"rating":6,"comment":"Great"}`, wantErr: true},
		"inquiry ok":           {schema: Inquiry, body: `{"name":"Sam","email":"sam@example.com","message":"Is it free?","phone":null}`},
		"inquiry missing email": {schema: Inquiry, body: `{"name":"Sam","message":"Is it free?"}`, wantErr: true},
		"profile ok":           {schema: Profile, body: `{"full_name":"Sam Lee"}`},
		"not json":             {schema: Profile, body: `{`, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := Validate(tt.schema, []byte(tt.body))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPayload) {
					t.Fatalf("expected ErrInvalidPayload, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing", []byte(`{}`))
	if err == nil || errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestValidate_DescribesLocation(t *testing.T) {
	err := Validate(Review, []byte(`{"rating":0,"comment":"ok"}`))
	if err == nil || !strings.Contains(err.Error(), "/rating") {
		t.Fatalf("expected error mentioning /rating, got %v", err)
	}
}
