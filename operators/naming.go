package operators

import (
	"fmt"
	"net/url"
	"strings"
)

type hostnameMapping struct {
	pattern string
	name    string
}

// knownHostnames maps hostname substrings to operator display names.
// Entries are matched in order, the first match wins.
var knownHostnames = []hostnameMapping{
	{pattern: "localhost", name: "Localhost"},
	{pattern: "lgns.net", name: "Luganode"},
	{pattern: "towns-u4.com", name: "Unit410"},
	{pattern: "figment.io", name: "Figment"},
	{pattern: "axol.io", name: "Axol"},
	{pattern: "hnt-labs", name: "HNT Labs"},
	{pattern: "unit410.com", name: "Unit410"},
	{pattern: "towns.com", name: "Towns"},
	{pattern: "nansen.ai", name: "Nansen"},
}

// DefaultOperatorImage is used for operators without a known logo.
const DefaultOperatorImage = ""

var operatorImages = map[string]string{
	"Luganode":  "/assets/operator-luganode.png",
	"Figment":   "/assets/operator-figment.png",
	"Axol":      "/assets/operator-axol.png",
	"HNT Labs":  "/assets/operator-hnt.jpg",
	"Unit410":   "/assets/operator-unit410.png",
	"Towns":     "/assets/operator-towns.svg",
	"Framework": "/assets/operator-framework.png",
	"Nansen":    "/assets/operator-nansen.png",
	"Localhost": DefaultOperatorImage,
}

// Hostname returns the lowercased hostname of a node url.
// Urls that cannot be parsed are returned as is.
func Hostname(nodeUrl string) string {
	urlData, err := url.Parse(nodeUrl)
	if err != nil || urlData.Hostname() == "" {
		return nodeUrl
	}
	return strings.ToLower(urlData.Hostname())
}

// BaseName maps a hostname to the display name of its operator, or the hostname itself.
func BaseName(hostname string) string {
	for _, mapping := range knownHostnames {
		if strings.Contains(hostname, mapping.pattern) {
			return mapping.name
		}
	}
	return hostname
}

// OperatorImage returns the logo path for an operator base name.
func OperatorImage(baseName string) string {
	if image, found := operatorImages[baseName]; found {
		return image
	}
	return DefaultOperatorImage
}

// AssignNames computes the final display names for a list of base names given
// in canonical operator order. Base names occurring once stay as they are,
// repeated ones get a 1-based counter ("Foo 1", "Foo 2"). The second return
// value lists the distinct base names in order of first appearance.
func AssignNames(baseNames []string) ([]string, []string) {
	occurrences := make(map[string]int, len(baseNames))
	order := make([]string, 0, len(baseNames))
	for _, name := range baseNames {
		if occurrences[name] == 0 {
			order = append(order, name)
		}
		occurrences[name]++
	}

	finalNames := make([]string, len(baseNames))
	counters := make(map[string]int, len(order))
	for i, name := range baseNames {
		if occurrences[name] == 1 {
			finalNames[i] = name
			continue
		}
		counters[name]++
		finalNames[i] = fmt.Sprintf("%v %v", name, counters[name])
	}

	return finalNames, order
}
