package validator

import (
	"fmt"
	"regexp"
)

var (
	phonePattern = regexp.MustCompile(`^[\d\-\+\(\)\s]+$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// SiteInfoSchema covers the site-wide configuration document.
var SiteInfoSchema = Schema{
	"name": {Type: "string", Required: true, MinLength: 1},
	"logo": {Type: "string", Required: true},
	"contact": {
		Type:     "object",
		Required: true,
		Properties: map[string]FieldSchema{
			"phone":   {Type: "string", Pattern: phonePattern},
			"email":   {Type: "string", Pattern: emailPattern},
			"address": {Type: "string"},
		},
	},
	"footer": {
		Type: "object",
		Properties: map[string]FieldSchema{
			"copyright": {Type: "string"},
			"links":     {Type: "array"},
		},
	},
}

// PageSchema covers a static page content document.
var PageSchema = Schema{
	"id":    {Type: "string", Required: true},
	"title": {Type: "string", Required: true},
}

// ProductSchema covers one product row as produced by the data
// preparation tooling.
var ProductSchema = Schema{
	"id":         {Type: "string", Required: true},
	"name":       {Type: "string", Required: true, MinLength: 1},
	"categoryId": {Type: "string", Required: true},
	"specs":      {Type: "string", Required: true},
	"desc":       {Type: "string", Required: true},
}

// BrandSchema covers one brand row, in its legacy field spelling.
var BrandSchema = Schema{
	"brand_id":  {Type: "string", Required: true},
	"show_name": {Type: "string", Required: true},
	"logo_url":  {Type: "string", Required: true},
}

// PromotionSchema covers one promotion row.
var PromotionSchema = Schema{
	"id":      {Type: "number", Required: true},
	"title":   {Type: "string", Required: true},
	"summary": {Type: "string", Required: true},
}

var schemasByKind = map[string]Schema{
	"site-info": SiteInfoSchema,
	"page":      PageSchema,
	"product":   ProductSchema,
	"brand":     BrandSchema,
	"promotion": PromotionSchema,
}

// SchemaFor returns the canned schema for a document kind.
func SchemaFor(kind string) (Schema, error) {
	schema, ok := schemasByKind[kind]
	if !ok {
		return nil, fmt.Errorf("no schema for document kind %q", kind)
	}
	return schema, nil
}
