package dto

import "fmt"

// Link is a hypermedia navigation entry.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// ProductSelfLink points at a single product resource.
func ProductSelfLink(id string) Link {
	return Link{Rel: "self", Href: "/products/" + id}
}

// ProductsCollectionLink points back at the collection listing.
func ProductsCollectionLink() Link {
	return Link{Rel: "products", Href: "/products"}
}

// ProductsPageLink points at a specific page of the collection listing.
func ProductsPageLink(rel string, page, size int, sort string) Link {
	href := fmt.Sprintf("/products?page=%d&size=%d", page, size)
	if sort != "" {
		href += "&sort=" + sort
	}
	return Link{Rel: rel, Href: href}
}
