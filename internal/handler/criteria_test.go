package handler

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/campusnest/rentals/api/internal/dto"
	"github.com/campusnest/rentals/api/internal/entity"
	"github.com/campusnest/rentals/api/internal/filter"
)

func TestCriteriaFromQuery(t *testing.T) {
	available := entity.ListingStatusAvailable
	rented := entity.ListingStatusRented
	studio := entity.PropertyTypeStudio
	location := "Alexandria"
	minPrice, maxPrice, beds := 800, 1200, 0

	tests := map[string]struct {
		query   dto.ListingsQuery
		want    filter.Criteria
		wantErr bool
	}{
		"defaults to available": {
			query: dto.ListingsQuery{},
			want:  filter.Criteria{Status: &available},
		},
		"any status": {
			query: dto.ListingsQuery{Status: "any"},
			want:  filter.Criteria{},
		},
		"explicit status": {
			query: dto.ListingsQuery{Status: "Rented"},
			want:  filter.Criteria{Status: &rented},
		},
		"full criteria": {
			query: dto.ListingsQuery{
				MinPrice: "800", MaxPrice: "1200", Location: " Alexandria ", Bedrooms: "0",
				Furnished: "yes", PropertyType: "studio", Search: " loft ",
			},
			want: filter.Criteria{
				MinPrice: &minPrice, MaxPrice: &maxPrice, Location: &location, Bedrooms: &beds,
				Furnished: filter.Yes, PropertyType: &studio, Status: &available, Search: "loft",
			},
		},
		"negative price":        {query: dto.ListingsQuery{MinPrice: "-1"}, wantErr: true},
		"non numeric bedrooms":  {query: dto.ListingsQuery{Bedrooms: "two"}, wantErr: true},
		"unknown furnished":     {query: dto.ListingsQuery{Furnished: "maybe"}, wantErr: true},
		"unknown property type": {query: dto.ListingsQuery{PropertyType: "castle"}, wantErr: true},
		"unknown status":        {query: dto.ListingsQuery{Status: "sold"}, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := criteriaFromQuery(tc.query)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("criteria mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCriteriaFromSearchHasNoDefaultStatus(t *testing.T) {
	got, err := criteriaFromSearch(dto.SearchCriteria{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != nil {
		t.Fatalf("expected no status constraint, got %v", *got.Status)
	}

	negative := -2
	if _, err := criteriaFromSearch(dto.SearchCriteria{Bedrooms: &negative}); err == nil {
		t.Fatalf("expected error for negative bedrooms")
	}
}
