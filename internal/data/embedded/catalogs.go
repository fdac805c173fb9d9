// Package embedded provides access to embedded trigger catalog data files.
package embedded

import _ "embed"

// TriggerCatalogData contains the embedded built-in trigger catalog YAML data.
// Entries are grouped by category; catalog order is file order.
//
//go:embed triggers.yaml
var TriggerCatalogData []byte
