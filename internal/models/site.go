package models

// SiteInfo is the site-wide configuration document. The live site treats
// it as an opaque object, so no schema is enforced on read; the admin
// validator checks it before any write.
type SiteInfo map[string]any

// PageContent is the content document of a single static page.
type PageContent map[string]any
