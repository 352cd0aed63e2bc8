package engine

import (
	"strings"

	"github.com/Jun0zo/SDS-Inventory-sub000/models"
)

// CategoryAny is the wildcard category that matches every material.
const CategoryAny = "any"

// Restriction is a resolved material-placement rule. An explicit
// item-code allow-list decides alone when present; otherwise the
// major/minor category pair is compared, with "any" as wildcard.
type Restriction struct {
	MajorCategory string
	MinorCategory string
	ItemCodes     []string
}

// restrictionFromModel converts a stored restriction, returning nil
// when no field is set (no opinion in the priority chain).
func restrictionFromModel(p models.PlacementRestriction) *Restriction {
	r := Restriction{}
	if p.MajorCategory != nil {
		r.MajorCategory = strings.TrimSpace(*p.MajorCategory)
	}
	if p.MinorCategory != nil {
		r.MinorCategory = strings.TrimSpace(*p.MinorCategory)
	}
	if p.ItemCodes != nil {
		for _, code := range strings.Split(*p.ItemCodes, ",") {
			if code = strings.TrimSpace(code); code != "" {
				r.ItemCodes = append(r.ItemCodes, code)
			}
		}
	}
	if r.MajorCategory == "" && r.MinorCategory == "" && len(r.ItemCodes) == 0 {
		return nil
	}
	return &r
}

// Matches decides whether a material may be placed under this
// restriction. A nil restriction allows everything. A mismatch is
// tallied separately from occupancy, never treated as an error.
func (r *Restriction) Matches(itemCode, majorCategory, minorCategory string) bool {
	if r == nil {
		return true
	}

	if len(r.ItemCodes) > 0 {
		for _, code := range r.ItemCodes {
			if NormalizeCode(code) == NormalizeCode(itemCode) {
				return true
			}
		}
		return false
	}

	if !categoryMatches(r.MajorCategory, majorCategory) {
		return false
	}
	if r.MinorCategory != "" && !categoryMatches(r.MinorCategory, minorCategory) {
		return false
	}
	return true
}

func categoryMatches(want, got string) bool {
	if want == "" || strings.EqualFold(want, CategoryAny) {
		return true
	}
	return strings.EqualFold(want, got)
}
