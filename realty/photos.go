package realty

import (
	"encoding/json"
	"regexp"
)

var photoSizePattern = regexp.MustCompile(`-w\d+_h\d+`)

// upgradePhotoURL rewrites provider CDN thumbnails to the largest variant.
func upgradePhotoURL(href string) string {
	if href == "" {
		return href
	}
	return photoSizePattern.ReplaceAllString(href, "-w2048_h1536")
}

func parsePhotoPayload(raw []byte) ([]string, error) {
	var root struct {
		Data struct {
			HomeSearch struct {
				Results []struct {
					Photos []struct {
						Href string `json:"href"`
					} `json:"photos"`
				} `json:"results"`
			} `json:"home_search"`
		} `json:"data"`
		Photos []struct {
			Href string `json:"href"`
		} `json:"photos"`
	}
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, err
	}
	var hrefs []string
	for _, p := range root.Photos {
		if p.Href != "" {
			hrefs = append(hrefs, upgradePhotoURL(p.Href))
		}
	}
	for _, res := range root.Data.HomeSearch.Results {
		for _, p := range res.Photos {
			if p.Href != "" {
				hrefs = append(hrefs, upgradePhotoURL(p.Href))
			}
		}
	}
	return hrefs, nil
}
