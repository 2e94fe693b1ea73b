package menu

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lowercases and strips diacritics so vocabulary matching tolerates
// both accented originals and OCR's frequent accent loss.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func fold(s string) string {
	out, _, err := transform.String(foldTransformer, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// sectionVocab maps folded section words to their canonical labels.
var sectionVocab = map[string]string{
	"red":       "Red",
	"reds":      "Red",
	"rouge":     "Red",
	"white":     "White",
	"whites":    "White",
	"blanc":     "White",
	"rose":      "Rosé",
	"rosé":      "Rosé",
	"sparkling": "Sparkling",
	"champagne": "Champagne",
	"prosecco":  "Sparkling",
	"cava":      "Sparkling",
	"orange":    "Orange",
	"dessert":   "Dessert",
	"sweet":     "Dessert",
	"fortified": "Fortified",
	"port":      "Fortified",
	"sherry":    "Fortified",
}

// grapeVocab is a controlled vocabulary of grape varieties, folded form to
// display form. Matching is substring-based on the folded item name.
var grapeVocab = map[string]string{
	"cabernet sauvignon": "Cabernet Sauvignon",
	"cabernet franc":     "Cabernet Franc",
	"sauvignon blanc":    "Sauvignon Blanc",
	"pinot noir":         "Pinot Noir",
	"pinot grigio":       "Pinot Grigio",
	"pinot gris":         "Pinot Gris",
	"chardonnay":         "Chardonnay",
	"merlot":             "Merlot",
	"riesling":           "Riesling",
	"syrah":              "Syrah",
	"shiraz":             "Shiraz",
	"grenache":           "Grenache",
	"tempranillo":        "Tempranillo",
	"sangiovese":         "Sangiovese",
	"nebbiolo":           "Nebbiolo",
	"malbec":             "Malbec",
	"zinfandel":          "Zinfandel",
	"chenin blanc":       "Chenin Blanc",
	"gamay":              "Gamay",
	"viognier":           "Viognier",
	"barbera":            "Barbera",
	"albarino":           "Albariño",
	"gruner veltliner":   "Grüner Veltliner",
	"gewurztraminer":     "Gewürztraminer",
	"muscat":             "Muscat",
	"vermentino":         "Vermentino",
	"carmenere":          "Carménère",
}

// regionVocab is a controlled vocabulary of wine regions.
var regionVocab = map[string]string{
	"bordeaux":       "Bordeaux",
	"burgundy":       "Burgundy",
	"bourgogne":      "Burgundy",
	"beaujolais":     "Beaujolais",
	"loire":          "Loire",
	"rhone":          "Rhône",
	"alsace":         "Alsace",
	"provence":       "Provence",
	"languedoc":      "Languedoc",
	"rioja":          "Rioja",
	"ribera del duero": "Ribera del Duero",
	"priorat":        "Priorat",
	"rias baixas":    "Rías Baixas",
	"tuscany":        "Tuscany",
	"toscana":        "Tuscany",
	"chianti":        "Chianti",
	"piedmont":       "Piedmont",
	"piemonte":       "Piedmont",
	"barolo":         "Barolo",
	"etna":           "Etna",
	"veneto":         "Veneto",
	"napa":           "Napa Valley",
	"sonoma":         "Sonoma",
	"willamette":     "Willamette Valley",
	"mosel":          "Mosel",
	"rheingau":       "Rheingau",
	"wachau":         "Wachau",
	"barossa":        "Barossa Valley",
	"margaret river": "Margaret River",
	"marlborough":    "Marlborough",
	"central otago":  "Central Otago",
	"mendoza":        "Mendoza",
	"maipo":          "Maipo Valley",
	"douro":          "Douro",
	"stellenbosch":   "Stellenbosch",
}

// sectionLabel reports whether any word of the row matches the section
// vocabulary and returns the canonical label.
func sectionLabel(text string) (string, bool) {
	for _, word := range strings.Fields(fold(text)) {
		word = strings.Trim(word, ":.,-|")
		if label, ok := sectionVocab[word]; ok {
			return label, true
		}
	}
	return "", false
}

// matchVocab returns the first vocabulary entry whose folded key occurs as
// a substring of the folded input. Multi-word keys are checked first so
// "cabernet sauvignon" wins over "sauvignon blanc" partials.
func matchVocab(text string, vocab map[string]string) (string, bool) {
	folded := fold(text)
	best := ""
	bestKey := ""
	for key, display := range vocab {
		if strings.Contains(folded, key) && len(key) > len(bestKey) {
			best = display
			bestKey = key
		}
	}
	return best, best != ""
}
