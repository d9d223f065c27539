// Package catalog provides the design styles and generation phases the
// studio offers.
//
// The built-in catalog carries 12 interior styles and the four progress
// phases (analyzing, understanding, generating, refining). A deployment can
// replace either list from a YAML or TOML file:
//
//	styles:
//	  - id: japandi
//	    name: Japandi
//	    thumbnail: /styles/japandi.jpg
//	    description: Japanese + Nordic
//
// Example Usage:
//
//	cat, err := catalog.LoadOrDefault(cfg.Studio.StylesFile)
//	style, ok := cat.Style("industrial")
package catalog
