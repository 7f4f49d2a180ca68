package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// The commerce payloads are decoded field by field so that a nested field of
// an unexpected type only defaults that field. Strings default to "", numbers
// to 0, flags to false and lists to nil.

func (r *SearchResult) UnmarshalJSON(b []byte) error {
	*r = searchResultFrom(gjson.ParseBytes(b))
	return nil
}

func (h *Hit) UnmarshalJSON(b []byte) error {
	*h = hitFrom(gjson.ParseBytes(b))
	return nil
}

func (p *RawProduct) UnmarshalJSON(b []byte) error {
	*p = rawProductFrom(gjson.ParseBytes(b))
	return nil
}

func (v *RawVariant) UnmarshalJSON(b []byte) error {
	*v = rawVariantFrom(gjson.ParseBytes(b))
	return nil
}

func (c *RawCategory) UnmarshalJSON(b []byte) error {
	*c = rawCategoryFrom(gjson.ParseBytes(b))
	return nil
}

func searchResultFrom(r gjson.Result) SearchResult {
	result := SearchResult{
		SelectedSortingOption: str(r.Get("selectedSortingOption")),
		Total:                 integer(r.Get("total")),
		Offset:                integer(r.Get("offset")),
		Limit:                 integer(r.Get("limit")),
		Query:                 str(r.Get("query")),
	}
	result.Hits = list(r.Get("hits"), hitFrom)
	result.SortingOptions = list(r.Get("sortingOptions"), func(o gjson.Result) SortingOption {
		return SortingOption{ID: str(o.Get("id")), Label: str(o.Get("label"))}
	})
	result.Refinements = list(r.Get("refinements"), refinementFrom)

	if selected := r.Get("selectedRefinements"); selected.IsObject() {
		result.SelectedRefinements = map[string]string{}
		selected.ForEach(func(key, value gjson.Result) bool {
			result.SelectedRefinements[key.String()] = str(value)
			return true
		})
	}
	return result
}

func hitFrom(r gjson.Result) Hit {
	hit := Hit{
		ProductID:           str(r.Get("productId")),
		ProductName:         str(r.Get("productName")),
		Price:               number(r.Get("price")),
		TieredPrices:        list(r.Get("tieredPrices"), tieredPriceFrom),
		Variants:            list(r.Get("variants"), rawVariantFrom),
		VariationData:       list(r.Get("c_variationData"), rawVariantFrom),
		CategoryName:        str(r.Get("c_categoryName")),
		CategoryDescription: str(r.Get("c_categoryDescription")),
		CategoryKeywords:    str(r.Get("c_categoryKeywords")),
	}
	hit.VariationAttributes = list(r.Get("variationAttributes"), func(a gjson.Result) json.RawMessage {
		return json.RawMessage(a.Raw)
	})
	if product := r.Get("representedProduct"); product.IsObject() {
		p := rawProductFrom(product)
		hit.RepresentedProduct = &p
	}
	return hit
}

func rawProductFrom(r gjson.Result) RawProduct {
	return RawProduct{
		ID:                 str(r.Get("id")),
		ProductLabelBadge:  str(r.Get("c_productLabelBadge")),
		IsClearance:        flag(r.Get("c_isClearance")),
		SirvImgData:        str(r.Get("c_sirvImgData")),
		EstimatedPrice:     number(r.Get("c_estimatedPrice")),
		PromotionCodes:     list(r.Get("c_promotionCodes"), str),
		InstallmentsNumber: integer(r.Get("c_installmentsNumber")),
		HasBudgetPay:       flag(r.Get("c_hasBudgetPay")),
	}
}

func rawVariantFrom(r gjson.Result) RawVariant {
	v := RawVariant{
		ProductID:          str(r.Get("productId")),
		Name:               str(r.Get("name")),
		Price:              number(r.Get("price")),
		TieredPrices:       list(r.Get("tieredPrices"), tieredPriceFrom),
		Orderable:          flag(r.Get("orderable")),
		IsClearance:        flag(r.Get("c_isClearance")),
		EstimatedPrice:     number(r.Get("c_estimatedPrice")),
		InstallmentsNumber: integer(r.Get("c_installmentsNumber")),
		HasBudgetPay:       flag(r.Get("c_hasBudgetPay")),
	}
	if values := r.Get("variationValues"); values.IsObject() {
		v.VariationValues = map[string]string{}
		values.ForEach(func(key, value gjson.Result) bool {
			v.VariationValues[key.String()] = str(value)
			return true
		})
	}
	return v
}

func tieredPriceFrom(r gjson.Result) TieredPrice {
	return TieredPrice{
		Price:     number(r.Get("price")),
		Pricebook: str(r.Get("pricebook")),
		Quantity:  number(r.Get("quantity")),
	}
}

func refinementFrom(r gjson.Result) Refinement {
	return Refinement{
		AttributeID: str(r.Get("attributeId")),
		Label:       str(r.Get("label")),
		Values: list(r.Get("values"), func(v gjson.Result) RefinementValue {
			return RefinementValue{
				Label:    str(v.Get("label")),
				Value:    str(v.Get("value")),
				HitCount: integer(v.Get("hitCount")),
			}
		}),
	}
}

func rawCategoryFrom(r gjson.Result) RawCategory {
	category := RawCategory{
		ID:              str(r.Get("id")),
		Name:            str(r.Get("name")),
		ShowInMenu:      flag(r.Get("c_showInMenu")),
		MegaMenuImage:   str(r.Get("c_categoryMegaMenuImage")),
		Thumbnail:       str(r.Get("thumbnail")),
		PageDescription: str(r.Get("page_description")),
		Categories:      list(r.Get("categories"), rawCategoryFrom),
		AlternativeURL:  str(r.Get("c_alternativeUrl")),
	}
	if tree := r.Get("parentCategoryTree"); tree.Exists() && tree.Type != gjson.Null {
		category.ParentCategoryTree = json.RawMessage(tree.Raw)
	}
	return category
}

// list maps the elements of an array; anything else yields nil.
func list[T any](r gjson.Result, from func(gjson.Result) T) []T {
	if !r.IsArray() {
		return nil
	}
	elems := r.Array()
	out := make([]T, 0, len(elems))
	for _, e := range elems {
		out = append(out, from(e))
	}
	return out
}

// str accepts strings and numbers.
func str(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	}
	return ""
}

// number accepts numbers and numeric strings.
func number(r gjson.Result) float64 {
	switch r.Type {
	case gjson.Number:
		return r.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return 0
}

func integer(r gjson.Result) int {
	return int(number(r))
}

// flag accepts booleans and the strings "true" and "false".
func flag(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.String:
		b, err := strconv.ParseBool(strings.TrimSpace(r.Str))
		return err == nil && b
	}
	return false
}
