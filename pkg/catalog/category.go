package catalog

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Sternrassler/catalog-bff/pkg/logging"
)

const (
	auctionCategoryID = "auction-navigation"
	liveTVCategoryID  = "livetv"
	localHost         = "localhost"
)

var urlHost = regexp.MustCompile(`(https?://)[a-zA-Z0-9.-]+`)

// MapCategories builds the navigation tree from the commerce category tree.
// data[0] is the root; only its children flagged for the menu are kept, and
// their subtrees are mapped unfiltered. Image hosts are rewritten to host, or
// to fallbackDomain when host is "localhost".
//
// MapCategories never fails. A panic while mapping is logged and yields an
// empty list.
func MapCategories(data []RawCategory, host, fallbackDomain string) (list CategoryList) {
	defer func() {
		if r := recover(); r != nil {
			logger := logging.NewLogger("catalog")
			logger.Error().
				Err(fmt.Errorf("%v", r)).
				Msg("Error occurred while mapping categories")
			CategoryMappingFailures.Inc()
			list = CategoryList{Categories: []CategoryView{}}
		}
	}()

	list = CategoryList{Categories: []CategoryView{}}
	if len(data) == 0 {
		return list
	}

	domain := ResolveDomain(host, fallbackDomain)
	for _, category := range data[0].Categories {
		if !category.ShowInMenu {
			continue
		}
		list.Categories = append(list.Categories, mapCategory(category, domain))
	}
	return list
}

// ResolveDomain returns fallbackDomain for "localhost" and host otherwise.
func ResolveDomain(host, fallbackDomain string) string {
	if host == localHost {
		return fallbackDomain
	}
	return host
}

func mapCategory(category RawCategory, domain string) CategoryView {
	subcategories := make([]CategoryView, 0, len(category.Categories))
	for _, sub := range category.Categories {
		subcategories = append(subcategories, mapCategory(sub, domain))
	}

	return CategoryView{
		Name:               category.Name,
		ID:                 category.ID,
		ShowInMenu:         category.ShowInMenu,
		Link:               CategoryLink(category.ID, category.AlternativeURL),
		ParentCategoryTree: breadcrumbs(category.ParentCategoryTree),
		Image:              RewriteHost(category.MegaMenuImage, domain),
		Thumbnail:          RewriteHost(category.Thumbnail, domain),
		Desc:               category.PageDescription,
		Subcategories:      subcategories,
	}
}

// breadcrumbs passes the parent tree through as received, [] when absent.
func breadcrumbs(tree json.RawMessage) json.RawMessage {
	if len(tree) == 0 {
		return json.RawMessage("[]")
	}
	return tree
}

// CategoryLink derives the storefront path of a category.
func CategoryLink(id, alternativeURL string) string {
	switch {
	case alternativeURL != "":
		return RelativeURL(alternativeURL)
	case id == auctionCategoryID:
		return "/online-auctions"
	case id == liveTVCategoryID:
		return "/" + liveTVCategoryID
	default:
		return "/c/" + id
	}
}

// RelativeURL drops scheme and authority from rawURL, returning "/" when no
// path follows. URLs without a scheme are logged and yield "".
func RelativeURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	schemeEnd := strings.Index(rawURL, "://")
	if schemeEnd == -1 {
		logger := logging.NewLogger("catalog")
		logger.Error().Str("url", rawURL).Msg("Invalid URL format")
		return ""
	}

	rest := rawURL[schemeEnd+3:]
	if slash := strings.Index(rest, "/"); slash != -1 {
		return rest[slash:]
	}
	return "/"
}

// RewriteHost replaces the hostname of every http(s) URL in text with domain.
// Scheme, port, path and surrounding text are kept. An empty domain leaves
// text unchanged.
func RewriteHost(text, domain string) string {
	if text == "" || domain == "" {
		return text
	}
	return urlHost.ReplaceAllString(text, "${1}"+strings.ReplaceAll(domain, "$", "$$"))
}
