package catalog

import "encoding/json"

// StrikeOutPricebook is the pricebook holding the consumer-facing list price.
const StrikeOutPricebook = "shoplc-usd-pricebook"

// TieredPrice is a price keyed by pricebook.
type TieredPrice struct {
	Price     float64 `json:"price"`
	Pricebook string  `json:"pricebook"`
	Quantity  float64 `json:"quantity,omitempty"`
}

// RawProduct is the represented product of a search hit.
type RawProduct struct {
	ID                 string   `json:"id"`
	ProductLabelBadge  string   `json:"c_productLabelBadge"`
	IsClearance        bool     `json:"c_isClearance"`
	SirvImgData        string   `json:"c_sirvImgData"`
	EstimatedPrice     float64  `json:"c_estimatedPrice"`
	PromotionCodes     []string `json:"c_promotionCodes"`
	InstallmentsNumber int      `json:"c_installmentsNumber"`
	HasBudgetPay       bool     `json:"c_hasBudgetPay"`
}

// RawVariant is an entry of either variants or c_variationData on a hit.
// Both arrays share this shape; each side only fills part of it.
type RawVariant struct {
	ProductID          string            `json:"productId"`
	Name               string            `json:"name,omitempty"`
	Price              float64           `json:"price,omitempty"`
	TieredPrices       []TieredPrice     `json:"tieredPrices,omitempty"`
	Orderable          bool              `json:"orderable,omitempty"`
	VariationValues    map[string]string `json:"variationValues,omitempty"`
	IsClearance        bool              `json:"c_isClearance,omitempty"`
	EstimatedPrice     float64           `json:"c_estimatedPrice,omitempty"`
	InstallmentsNumber int               `json:"c_installmentsNumber,omitempty"`
	HasBudgetPay       bool              `json:"c_hasBudgetPay,omitempty"`
}

// Hit is one product search result.
type Hit struct {
	ProductID           string            `json:"productId"`
	ProductName         string            `json:"productName"`
	Price               float64           `json:"price"`
	TieredPrices        []TieredPrice     `json:"tieredPrices"`
	VariationAttributes []json.RawMessage `json:"variationAttributes"`
	Variants            []RawVariant      `json:"variants"`
	VariationData       []RawVariant      `json:"c_variationData"`
	RepresentedProduct  *RawProduct       `json:"representedProduct"`
	CategoryName        string            `json:"c_categoryName"`
	CategoryDescription string            `json:"c_categoryDescription"`
	CategoryKeywords    string            `json:"c_categoryKeywords"`
}

// SortingOption is a sort order offered by the search API.
type SortingOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// RefinementValue is one selectable value of a refinement.
type RefinementValue struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	HitCount int    `json:"hitCount"`
}

// Refinement is a facet offered for filtering a listing.
type Refinement struct {
	AttributeID string            `json:"attributeId"`
	Label       string            `json:"label"`
	Values      []RefinementValue `json:"values"`
}

// SearchResult is the product search payload fed to MapProductList.
type SearchResult struct {
	Hits                  []Hit             `json:"hits"`
	SortingOptions        []SortingOption   `json:"sortingOptions"`
	SelectedSortingOption string            `json:"selectedSortingOption"`
	Refinements           []Refinement      `json:"refinements"`
	SelectedRefinements   map[string]string `json:"selectedRefinements"`
	Total                 int               `json:"total"`
	Offset                int               `json:"offset"`
	Limit                 int               `json:"limit"`
	Query                 string            `json:"query,omitempty"`
}

// BudgetPay summarises installment payment for a price.
type BudgetPay struct {
	Count  int     `json:"count"`
	Price  float64 `json:"price"`
	Status bool    `json:"status"`
}

// VariantView is a variation datum merged with its matching variant.
type VariantView struct {
	ProductID          string            `json:"productId"`
	Name               string            `json:"name"`
	Price              float64           `json:"price"`
	TieredPrices       []TieredPrice     `json:"tieredPrices"`
	Orderable          bool              `json:"orderable"`
	VariationValues    map[string]string `json:"variationValues,omitempty"`
	EstimatedPrice     float64           `json:"c_estimatedPrice"`
	InstallmentsNumber int               `json:"c_installmentsNumber"`
	HasBudgetPay       bool              `json:"c_hasBudgetPay"`
	StrikeOutPrice     float64           `json:"strikeOutPrice"`
	IsClearance        bool              `json:"isClearance"`
	Link               string            `json:"link"`
	BudgetPay          BudgetPay         `json:"budgetPay"`
	YouSaveValue       int               `json:"youSaveValue"`
}

// ProductView is one product of a listing.
type ProductView struct {
	Name                string            `json:"name"`
	GenericName         string            `json:"genericName"`
	ProductID           string            `json:"productId"`
	SKU                 string            `json:"sku"`
	Link                string            `json:"link"`
	ProductLabelBadge   string            `json:"productLabelBadge"`
	IsClearance         bool              `json:"isClearance"`
	BudgetPay           BudgetPay         `json:"budgetPay"`
	Images              []string          `json:"images"`
	SwatchImage         *string           `json:"swatchImage"`
	Price               float64           `json:"price"`
	TieredPrices        []TieredPrice     `json:"tieredPrices"`
	StrikeOutPrice      float64           `json:"strikeOutPrice"`
	EstimatedPrice      float64           `json:"estimatedPrice"`
	YouSaveValue        int               `json:"youSaveValue"`
	PromotionCodes      []string          `json:"promotionCodes"`
	Variants            []VariantView     `json:"variants"`
	VariationAttributes []json.RawMessage `json:"variationAttributes"`
}

// SortOption is a sort order as shown to the shopper.
type SortOption struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// RefinementParam is a selectable filter value.
type RefinementParam struct {
	Selected bool   `json:"selected"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Count    int    `json:"count"`
}

// RefinementView is a filter group.
type RefinementView struct {
	IsSingleSelector bool              `json:"isSingleSelector"`
	Selected         bool              `json:"selected"`
	AttributeID      string            `json:"attributeId"`
	Category         string            `json:"category"`
	Params           []RefinementParam `json:"params"`
}

// PageMetadata carries SEO fields taken from the first hit.
type PageMetadata struct {
	CategoryName        string `json:"categoryName"`
	CategoryDescription string `json:"categoryDescription"`
	CategoryKeywords    string `json:"categoryKeywords"`
}

// ProductList is the listing view model.
type ProductList struct {
	PageMetadata          PageMetadata      `json:"pageMetadata"`
	TotalProduct          int               `json:"totalProduct"`
	TotalPages            int               `json:"totalPages"`
	CurrentPage           int               `json:"currentPage"`
	Products              []ProductView     `json:"products"`
	Sort                  []SortOption      `json:"sort"`
	Filter                []RefinementView  `json:"filter"`
	SelectedSortingOption string            `json:"selectedSortingOption"`
	SelectedRefinements   map[string]string `json:"selectedRefinements"`
}

// RawCategory is a node of the commerce category tree.
type RawCategory struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	ShowInMenu         bool            `json:"c_showInMenu"`
	MegaMenuImage      string          `json:"c_categoryMegaMenuImage"`
	Thumbnail          string          `json:"thumbnail"`
	PageDescription    string          `json:"page_description"`
	Categories         []RawCategory   `json:"categories"`
	ParentCategoryTree json.RawMessage `json:"parentCategoryTree"`
	AlternativeURL     string          `json:"c_alternativeUrl"`
}

// CategoryView is a node of the navigation tree.
type CategoryView struct {
	Name               string          `json:"name"`
	ID                 string          `json:"id"`
	ShowInMenu         bool            `json:"showInMenu"`
	Link               string          `json:"link"`
	ParentCategoryTree json.RawMessage `json:"parentCategoryTree"`
	Image              string          `json:"image"`
	Thumbnail          string          `json:"thumbnail"`
	Desc               string          `json:"desc"`
	Subcategories      []CategoryView  `json:"subcategories"`
}

// CategoryList is the navigation tree served to clients and cached.
type CategoryList struct {
	Categories []CategoryView `json:"categories"`
}
