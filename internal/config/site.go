package config

import (
	"fmt"
	"maps"
	"regexp"
	"strings"

	"github.com/liftlens/croaudit/internal/model"
)

// SiteConfig holds site-specific configuration for a single storefront.
// This allows customizing report output per audited site.
type SiteConfig struct {
	// Format overrides the output format for this site.
	Format string `yaml:"format,omitempty"`

	// EmbedImages overrides screenshot embedding for this site.
	// Nil means inherit.
	EmbedImages *bool `yaml:"embedImages,omitempty"`

	// TopFindings overrides the top findings count for this site.
	// If zero, the global value is used.
	TopFindings int `yaml:"topFindings,omitempty"`

	// Colors maps score band names (excellent, good, acceptable,
	// needs_work, critical) to hex colors, overriding the default palette.
	Colors map[string]string `yaml:"colors,omitempty"`
}

// File represents the structure of the .croaudit configuration file.
type File struct {
	// Sites maps site hosts to their specific configurations.
	// Keys should be the host without the protocol (e.g., "shop.example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific site host.
// It merges the site-specific configuration with defaults.
//
// The returned config never aliases the defaults' Colors map: batch mode
// calls this from concurrent goroutines, and a site's overrides must not
// leak into other sites' merged configs.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	// Start with a copy of the defaults
	result := cf.Defaults
	result.Colors = maps.Clone(cf.Defaults.Colors)

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Format != "" {
			result.Format = siteConfig.Format
		}
		if siteConfig.EmbedImages != nil {
			result.EmbedImages = siteConfig.EmbedImages
		}
		if siteConfig.TopFindings != 0 {
			result.TopFindings = siteConfig.TopFindings
		}
		if len(siteConfig.Colors) > 0 {
			if result.Colors == nil {
				result.Colors = make(map[string]string)
			}
			for k, v := range siteConfig.Colors {
				result.Colors[k] = v
			}
		}
	}

	return result
}

// hexColorPattern matches a #rrggbb hex color.
var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// bucketNames maps config file band names to score buckets.
var bucketNames = map[string]model.ScoreBucket{
	"excellent":  model.BucketExcellent,
	"good":       model.BucketGood,
	"acceptable": model.BucketAcceptable,
	"needs_work": model.BucketNeedsWork,
	"critical":   model.BucketCritical,
}

// ColorOverrides converts the Colors map into the typed palette override
// used during compilation. Unknown band names and malformed colors are
// errors so a typo does not silently fall back to the default palette.
func (sc *SiteConfig) ColorOverrides() (map[model.ScoreBucket]string, error) {
	if len(sc.Colors) == 0 {
		return nil, nil
	}

	overrides := make(map[model.ScoreBucket]string, len(sc.Colors))
	for name, color := range sc.Colors {
		bucket, ok := bucketNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBucket, name)
		}
		if !hexColorPattern.MatchString(color) {
			return nil, fmt.Errorf("%w: %q for band %q", ErrInvalidColor, color, name)
		}
		overrides[bucket] = strings.ToLower(color)
	}
	return overrides, nil
}
