package catalog

import (
	"encoding/json"
	"testing"
)

func categoryTree() []RawCategory {
	return []RawCategory{{
		ID: "root",
		Categories: []RawCategory{
			{
				ID:            "a",
				Name:          "Jewelry",
				ShowInMenu:    true,
				MegaMenuImage: "https://old.cdn.com/img/a.png",
				Thumbnail:     "https://old.cdn.com/thumb/a.png",
				Categories: []RawCategory{
					{
						ID:         "a1",
						Name:       "Rings",
						ShowInMenu: false,
						Categories: []RawCategory{{ID: "a1x", Name: "Silver Rings"}},
					},
					{ID: "a2", Name: "Pendants", AlternativeURL: "https://x.com/pendants-sale"},
				},
				ParentCategoryTree: json.RawMessage(`[{"id":"root","name":"Root","c_extra":1}]`),
			},
			{
				ID:         "b",
				Name:       "Hidden",
				ShowInMenu: false,
				Categories: []RawCategory{{ID: "b1", ShowInMenu: true}},
			},
		},
	}}
}

func TestMapCategories_FiltersTopLevelOnly(t *testing.T) {
	list := MapCategories(categoryTree(), "new.cdn.com", "fallback.com")

	if len(list.Categories) != 1 {
		t.Fatalf("len(Categories) = %d, want 1", len(list.Categories))
	}

	a := list.Categories[0]
	if a.ID != "a" || a.Name != "Jewelry" || !a.ShowInMenu {
		t.Errorf("category = %+v", a)
	}
	if len(a.Subcategories) != 2 {
		t.Fatalf("len(Subcategories) = %d, want 2", len(a.Subcategories))
	}
	if a.Subcategories[0].ID != "a1" || a.Subcategories[1].ID != "a2" {
		t.Errorf("subcategory order = %q, %q", a.Subcategories[0].ID, a.Subcategories[1].ID)
	}
	if len(a.Subcategories[0].Subcategories) != 1 || a.Subcategories[0].Subcategories[0].ID != "a1x" {
		t.Error("nested subcategories should be kept regardless of menu flag")
	}
	if a.Subcategories[1].Link != "/pendants-sale" {
		t.Errorf("alternative link = %q, want /pendants-sale", a.Subcategories[1].Link)
	}
	if string(a.ParentCategoryTree) != `[{"id":"root","name":"Root","c_extra":1}]` {
		t.Errorf("ParentCategoryTree = %s, want it passed through", a.ParentCategoryTree)
	}
}

func TestMapCategories_RewritesImageHosts(t *testing.T) {
	list := MapCategories(categoryTree(), "new.cdn.com", "fallback.com")

	a := list.Categories[0]
	if a.Image != "https://new.cdn.com/img/a.png" {
		t.Errorf("Image = %q", a.Image)
	}
	if a.Thumbnail != "https://new.cdn.com/thumb/a.png" {
		t.Errorf("Thumbnail = %q", a.Thumbnail)
	}
}

func TestMapCategories_LocalhostUsesFallback(t *testing.T) {
	list := MapCategories(categoryTree(), "localhost", "www.shoplc.com")

	if got := list.Categories[0].Image; got != "https://www.shoplc.com/img/a.png" {
		t.Errorf("Image = %q", got)
	}
}

func TestMapCategories_EmptyInput(t *testing.T) {
	tests := []struct {
		name string
		data []RawCategory
	}{
		{"nil", nil},
		{"empty", []RawCategory{}},
		{"root without children", []RawCategory{{ID: "root"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := MapCategories(tt.data, "example.com", "")
			if list.Categories == nil || len(list.Categories) != 0 {
				t.Errorf("Categories = %v, want empty", list.Categories)
			}

			body, err := json.Marshal(list)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			if string(body) != `{"categories":[]}` {
				t.Errorf("JSON = %s", body)
			}
		})
	}
}

func TestMapCategories_LeafSerialisesEmptySubcategories(t *testing.T) {
	data := []RawCategory{{Categories: []RawCategory{{ID: "leaf", ShowInMenu: true}}}}
	list := MapCategories(data, "", "")

	leaf := list.Categories[0]
	if leaf.Subcategories == nil || string(leaf.ParentCategoryTree) != "[]" {
		t.Error("leaf lists should be empty, not nil")
	}
	if leaf.Link != "/c/leaf" {
		t.Errorf("Link = %q", leaf.Link)
	}
}

func TestCategoryLink(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		altURL string
		want   string
	}{
		{"auction", "auction-navigation", "", "/online-auctions"},
		{"live tv", "livetv", "", "/livetv"},
		{"default", "shoes", "", "/c/shoes"},
		{"alternative url", "shoes", "https://x.com/sale", "/sale"},
		{"alternative url wins over special id", "livetv", "https://x.com/watch", "/watch"},
		{"malformed alternative url", "shoes", "x.com/sale", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategoryLink(tt.id, tt.altURL); got != tt.want {
				t.Errorf("CategoryLink(%q, %q) = %q, want %q", tt.id, tt.altURL, got, tt.want)
			}
		})
	}
}

func TestRelativeURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://x.com/sale", "/sale"},
		{"https://x.com/sale/rings?page=2", "/sale/rings?page=2"},
		{"http://x.com", "/"},
		{"x.com/sale", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := RelativeURL(tt.input); got != tt.want {
			t.Errorf("RelativeURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRewriteHost(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		domain string
		want   string
	}{
		{"https url", "https://old.cdn.com/img/a.png", "new.cdn.com", "https://new.cdn.com/img/a.png"},
		{"http url keeps port", "http://old.cdn.com:8080/a.png", "new.cdn.com", "http://new.cdn.com:8080/a.png"},
		{"non-url text", "banner image", "new.cdn.com", "banner image"},
		{
			"multiple urls",
			`<img src="https://a.com/1.png"><img src="http://b.com/2.png">`,
			"c.com",
			`<img src="https://c.com/1.png"><img src="http://c.com/2.png">`,
		},
		{"empty domain", "https://old.cdn.com/a.png", "", "https://old.cdn.com/a.png"},
		{"empty input", "", "new.cdn.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RewriteHost(tt.input, tt.domain); got != tt.want {
				t.Errorf("RewriteHost() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveDomain(t *testing.T) {
	if got := ResolveDomain("localhost", "www.shoplc.com"); got != "www.shoplc.com" {
		t.Errorf("ResolveDomain(localhost) = %q", got)
	}
	if got := ResolveDomain("shop.example.com", "www.shoplc.com"); got != "shop.example.com" {
		t.Errorf("ResolveDomain(shop.example.com) = %q", got)
	}
}

func TestRawCategory_UnmarshalToleratesMalformedFields(t *testing.T) {
	payload := `[{"id": "root", "categories": [
		{"id": "a", "name": "Alpha", "c_showInMenu": true},
		{"id": "b", "name": 42, "c_showInMenu": "true", "thumbnail": {"url": "x"}, "categories": "none"},
		{"id": "c", "c_showInMenu": "yes", "parentCategoryTree": [{"id": "root", "extra": true}]}
	]}]`

	var data []RawCategory
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	children := data[0].Categories
	if len(children) != 3 {
		t.Fatalf("children = %d, want 3", len(children))
	}

	b := children[1]
	if b.Name != "42" || !b.ShowInMenu || b.Thumbnail != "" || b.Categories != nil {
		t.Errorf("malformed node = %+v", b)
	}
	if children[2].ShowInMenu {
		t.Error(`"yes" should not enable the menu flag`)
	}
	if string(children[2].ParentCategoryTree) != `[{"id": "root", "extra": true}]` {
		t.Errorf("ParentCategoryTree = %s", children[2].ParentCategoryTree)
	}

	list := MapCategories(data, "", "")
	if len(list.Categories) != 2 || list.Categories[0].ID != "a" || list.Categories[1].ID != "b" {
		t.Errorf("categories = %+v", list.Categories)
	}
}
