package assets

import (
	exif "github.com/dsoprea/go-exif/v3"
)

// sensitiveMetadataTags scans image bytes for EXIF tags that should not
// end up in a report handed to a client: location, device identifiers,
// and authorship. Returns nil when the image carries no EXIF segment,
// which is the common case for browser-captured screenshots.
func sensitiveMetadataTags(data []byte) []string {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return nil
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}

	var tags []string
	seen := make(map[string]bool)
	for _, entry := range entries {
		if !isSensitiveTag(entry.TagName) || seen[entry.TagName] {
			continue
		}
		seen[entry.TagName] = true
		tags = append(tags, entry.TagName)
	}
	return tags
}

// isSensitiveTag reports whether an EXIF tag can identify a person,
// device, or location.
func isSensitiveTag(name string) bool {
	switch name {
	case "GPSLatitude", "GPSLongitude", "GPSLatitudeRef", "GPSLongitudeRef",
		"SerialNumber", "CameraSerialNumber", "BodySerialNumber", "LensSerialNumber",
		"Artist", "Author", "Copyright", "XPAuthor",
		"HostComputer":
		return true
	}
	return false
}
