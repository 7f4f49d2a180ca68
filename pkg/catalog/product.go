package catalog

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/Sternrassler/catalog-bff/pkg/pagination"
)

// DecodeSearchResult parses a product search payload. Payloads that are empty
// or not a JSON object fail with ErrInvalidInput; nested fields of an
// unexpected type fall back to their zero value.
func DecodeSearchResult(raw []byte) (*SearchResult, error) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return nil, ErrInvalidInput
	}

	result := searchResultFrom(gjson.ParseBytes(raw))
	return &result, nil
}

// MapProductList builds the listing view for one page of search results.
// A non-positive pageSize uses pagination.DefaultPageSize.
func MapProductList(data *SearchResult, offset, pageSize int) (*ProductList, error) {
	if data == nil {
		return nil, ErrInvalidInput
	}
	pageSize = pagination.NormalizePageSize(pageSize)

	var (
		products []ProductView
		sortBy   []SortOption
		filter   []RefinementView
		g        errgroup.Group
	)

	g.Go(func() error {
		products = mapProducts(data.Hits)
		return nil
	})
	g.Go(func() error {
		sortBy = mapSortOptions(data.SortingOptions, data.SelectedSortingOption)
		return nil
	})
	g.Go(func() error {
		filter = mapRefinements(data.Refinements, data.SelectedRefinements)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("map product list: %w", err)
	}

	var meta PageMetadata
	if len(data.Hits) > 0 {
		first := data.Hits[0]
		meta = PageMetadata{
			CategoryName:        first.CategoryName,
			CategoryDescription: first.CategoryDescription,
			CategoryKeywords:    first.CategoryKeywords,
		}
	}

	selected := data.SelectedRefinements
	if selected == nil {
		selected = map[string]string{}
	}

	return &ProductList{
		PageMetadata:          meta,
		TotalProduct:          data.Total,
		TotalPages:            pagination.TotalPages(data.Total, pageSize),
		CurrentPage:           pagination.CurrentPage(offset, pageSize),
		Products:              products,
		Sort:                  sortBy,
		Filter:                filter,
		SelectedSortingOption: data.SelectedSortingOption,
		SelectedRefinements:   selected,
	}, nil
}

func mapProducts(hits []Hit) []ProductView {
	products := make([]ProductView, 0, len(hits))
	for _, hit := range hits {
		products = append(products, mapProduct(hit))
	}
	return products
}

func mapProduct(hit Hit) ProductView {
	product := RawProduct{}
	if hit.RepresentedProduct != nil {
		product = *hit.RepresentedProduct
	}

	images, swatch := ExpandImages(product.SirvImgData)

	current := hit.Price
	if len(hit.Variants) > 0 && hit.Variants[0].Price != 0 {
		current = hit.Variants[0].Price
	}

	return ProductView{
		Name:                hit.ProductName,
		GenericName:         GenericName(hit.ProductName),
		ProductID:           product.ID,
		SKU:                 product.ID,
		Link:                productLink(hit.ProductName, product.ID),
		ProductLabelBadge:   product.ProductLabelBadge,
		IsClearance:         product.IsClearance,
		BudgetPay:           NewBudgetPay(hit.Price, product.InstallmentsNumber, product.HasBudgetPay),
		Images:              images,
		SwatchImage:         swatch,
		Price:               hit.Price,
		TieredPrices:        nonNil(hit.TieredPrices),
		StrikeOutPrice:      StrikeOutPrice(hit.TieredPrices, hit.Price),
		EstimatedPrice:      product.EstimatedPrice,
		YouSaveValue:        YouSaveValue(current, product.EstimatedPrice),
		PromotionCodes:      nonNil(product.PromotionCodes),
		Variants:            mergeVariants(hit.Variants, hit.VariationData),
		VariationAttributes: nonNil(hit.VariationAttributes),
	}
}

// mergeVariants yields one entry per variation datum. The variant with the
// same productId overlays the datum and supplies pricing; installments,
// clearance and the estimate come from the datum.
func mergeVariants(variants, variationData []RawVariant) []VariantView {
	byID := make(map[string]RawVariant, len(variants))
	for _, v := range variants {
		if _, seen := byID[v.ProductID]; !seen {
			byID[v.ProductID] = v
		}
	}

	merged := make([]VariantView, 0, len(variationData))
	for _, datum := range variationData {
		variant, matched := byID[datum.ProductID]
		base := overlay(datum, variant)

		view := VariantView{
			ProductID:          base.ProductID,
			Name:               base.Name,
			Price:              base.Price,
			TieredPrices:       nonNil(base.TieredPrices),
			Orderable:          base.Orderable,
			VariationValues:    base.VariationValues,
			EstimatedPrice:     base.EstimatedPrice,
			InstallmentsNumber: base.InstallmentsNumber,
			HasBudgetPay:       base.HasBudgetPay,
			IsClearance:        datum.IsClearance,
			BudgetPay:          NewBudgetPay(variant.Price, datum.InstallmentsNumber, datum.HasBudgetPay),
			YouSaveValue:       YouSaveValue(variant.Price, datum.EstimatedPrice),
		}
		if matched {
			view.StrikeOutPrice = StrikeOutPrice(variant.TieredPrices, variant.Price)
			view.Link = productLink(variant.Name, variant.ProductID)
		}
		merged = append(merged, view)
	}
	return merged
}

// overlay returns base with every non-zero field of top applied over it.
func overlay(base, top RawVariant) RawVariant {
	if top.ProductID != "" {
		base.ProductID = top.ProductID
	}
	if top.Name != "" {
		base.Name = top.Name
	}
	if top.Price != 0 {
		base.Price = top.Price
	}
	if top.TieredPrices != nil {
		base.TieredPrices = top.TieredPrices
	}
	if top.Orderable {
		base.Orderable = true
	}
	if top.VariationValues != nil {
		base.VariationValues = top.VariationValues
	}
	if top.IsClearance {
		base.IsClearance = true
	}
	if top.EstimatedPrice != 0 {
		base.EstimatedPrice = top.EstimatedPrice
	}
	if top.InstallmentsNumber != 0 {
		base.InstallmentsNumber = top.InstallmentsNumber
	}
	if top.HasBudgetPay {
		base.HasBudgetPay = true
	}
	return base
}

func mapSortOptions(options []SortingOption, selectedSortingOption string) []SortOption {
	selected := strings.ToLower(selectedSortingOption)

	sortBy := make([]SortOption, 0, len(options))
	for _, opt := range options {
		sortBy = append(sortBy, SortOption{
			Label:    opt.Label,
			Value:    opt.ID,
			Selected: opt.ID == selected,
		})
	}
	return sortBy
}

func mapRefinements(refinements []Refinement, selected map[string]string) []RefinementView {
	filter := make([]RefinementView, 0, len(refinements))
	for _, ref := range refinements {
		chosen, isSelected := selected[ref.AttributeID]
		values := map[string]bool{}
		if isSelected {
			for _, v := range strings.Split(chosen, "|") {
				values[v] = true
			}
		}

		params := make([]RefinementParam, 0, len(ref.Values))
		for _, v := range ref.Values {
			params = append(params, RefinementParam{
				Selected: values[v.Value],
				Label:    v.Label,
				Value:    v.Value,
				Count:    v.HitCount,
			})
		}

		filter = append(filter, RefinementView{
			IsSingleSelector: ref.AttributeID == "price",
			Selected:         isSelected,
			AttributeID:      ref.AttributeID,
			Category:         ref.Label,
			Params:           params,
		})
	}
	return filter
}

func productLink(name, productID string) string {
	return fmt.Sprintf("/%s/p/%s.html", Slugify(name), productID)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
