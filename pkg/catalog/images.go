package catalog

import "strings"

const (
	imageBaseURL   = "https://image.shoplc.com"
	galleryParams  = "?w=300&h=300"
	swatchParams   = "?w=46&h=46"
	imageSeparator = ";"
)

// ExpandImages turns a semicolon separated list of image paths into gallery
// URLs and the swatch URL of the first image. Swatch is nil without images.
func ExpandImages(sirvImgData string) ([]string, *string) {
	images := []string{}
	var swatch *string

	for _, path := range strings.Split(sirvImgData, imageSeparator) {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		images = append(images, imageBaseURL+path+galleryParams)
		if swatch == nil {
			s := imageBaseURL + path + swatchParams
			swatch = &s
		}
	}

	return images, swatch
}
