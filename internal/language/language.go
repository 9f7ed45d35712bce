package language

import "strings"

type entry struct {
	ebu     string // GSI LC field, two uppercase hex digits
	code2   string // ISO 639-1 (2-letter)
	code3   string // ISO 639-2 (3-letter)
	display string
}

// Codes 01..2B are the European block, 45..7F the rest of the world.
var languages = []entry{
	{"01", "sq", "sqi", "Albanian"},
	{"02", "br", "bre", "Breton"},
	{"03", "ca", "cat", "Catalan"},
	{"04", "hr", "hrv", "Croatian"},
	{"05", "cy", "cym", "Welsh"},
	{"06", "cs", "ces", "Czech"},
	{"07", "da", "dan", "Danish"},
	{"08", "de", "deu", "German"},
	{"09", "en", "eng", "English"},
	{"0A", "es", "spa", "Spanish"},
	{"0B", "eo", "epo", "Esperanto"},
	{"0C", "et", "est", "Estonian"},
	{"0D", "eu", "eus", "Basque"},
	{"0E", "fo", "fao", "Faroese"},
	{"0F", "fr", "fra", "French"},
	{"10", "fy", "fry", "Frisian"},
	{"11", "ga", "gle", "Irish"},
	{"12", "gd", "gla", "Gaelic"},
	{"13", "gl", "glg", "Galician"},
	{"14", "is", "isl", "Icelandic"},
	{"15", "it", "ita", "Italian"},
	{"16", "se", "sme", "Lappish"},
	{"17", "la", "lat", "Latin"},
	{"18", "lv", "lav", "Latvian"},
	{"19", "lb", "ltz", "Luxembourgian"},
	{"1A", "lt", "lit", "Lithuanian"},
	{"1B", "hu", "hun", "Hungarian"},
	{"1C", "mt", "mlt", "Maltese"},
	{"1D", "nl", "nld", "Dutch"},
	{"1E", "no", "nor", "Norwegian"},
	{"1F", "oc", "oci", "Occitan"},
	{"20", "pl", "pol", "Polish"},
	{"21", "pt", "por", "Portuguese"},
	{"22", "ro", "ron", "Romanian"},
	{"23", "rm", "roh", "Romansh"},
	{"24", "sr", "srp", "Serbian"},
	{"25", "sk", "slk", "Slovak"},
	{"26", "sl", "slv", "Slovenian"},
	{"27", "fi", "fin", "Finnish"},
	{"28", "sv", "swe", "Swedish"},
	{"29", "tr", "tur", "Turkish"},
	{"2A", "nl", "nld", "Flemish"},
	{"2B", "wa", "wln", "Walloon"},
	{"45", "zu", "zul", "Zulu"},
	{"46", "vi", "vie", "Vietnamese"},
	{"47", "uz", "uzb", "Uzbek"},
	{"48", "ur", "urd", "Urdu"},
	{"49", "uk", "ukr", "Ukrainian"},
	{"4A", "th", "tha", "Thai"},
	{"4B", "te", "tel", "Telugu"},
	{"4C", "tt", "tat", "Tatar"},
	{"4D", "ta", "tam", "Tamil"},
	{"4E", "tg", "tgk", "Tajik"},
	{"4F", "sw", "swa", "Swahili"},
	{"51", "so", "som", "Somali"},
	{"52", "si", "sin", "Sinhalese"},
	{"53", "sn", "sna", "Shona"},
	{"56", "ru", "rus", "Russian"},
	{"57", "qu", "que", "Quechua"},
	{"58", "ps", "pus", "Pashto"},
	{"59", "pa", "pan", "Punjabi"},
	{"5A", "fa", "fas", "Persian"},
	{"5C", "or", "ori", "Oriya"},
	{"5D", "ne", "nep", "Nepali"},
	{"5F", "mr", "mar", "Marathi"},
	{"61", "ms", "msa", "Malay"},
	{"62", "mg", "mlg", "Malagasy"},
	{"63", "mk", "mkd", "Macedonian"},
	{"64", "lo", "lao", "Lao"},
	{"65", "ko", "kor", "Korean"},
	{"66", "km", "khm", "Khmer"},
	{"67", "kk", "kaz", "Kazakh"},
	{"68", "kn", "kan", "Kannada"},
	{"69", "ja", "jpn", "Japanese"},
	{"6A", "id", "ind", "Indonesian"},
	{"6B", "hi", "hin", "Hindi"},
	{"6C", "he", "heb", "Hebrew"},
	{"6D", "ha", "hau", "Hausa"},
	{"6F", "gu", "guj", "Gujarati"},
	{"70", "el", "ell", "Greek"},
	{"71", "ka", "kat", "Georgian"},
	{"72", "ff", "ful", "Fulani"},
	{"75", "zh", "zho", "Chinese"},
	{"76", "my", "mya", "Burmese"},
	{"77", "bg", "bul", "Bulgarian"},
	{"78", "bn", "ben", "Bengali"},
	{"79", "be", "bel", "Belarusian"},
	{"7A", "bm", "bam", "Bambara"},
	{"7B", "az", "aze", "Azerbaijani"},
	{"7C", "as", "asm", "Assamese"},
	{"7D", "hy", "hye", "Armenian"},
	{"7E", "ar", "ara", "Arabic"},
	{"7F", "am", "amh", "Amharic"},
}

var byEBU map[string]*entry

func init() {
	byEBU = make(map[string]*entry, len(languages))
	for i := range languages {
		byEBU[languages[i].ebu] = &languages[i]
	}
}

func lookup(code string) *entry {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) == 1 {
		code = "0" + code
	}
	return byEBU[code]
}

// Known reports whether code is a recognized GSI language code.
func Known(code string) bool {
	return lookup(code) != nil
}

// ToISO2 converts a GSI language code to ISO 639-1.
// Returns empty string for unrecognized input.
func ToISO2(code string) string {
	if e := lookup(code); e != nil {
		return e.code2
	}
	return ""
}

// ToISO3 converts a GSI language code to ISO 639-2.
// Returns "und" for unrecognized input, including the "00" placeholder.
func ToISO3(code string) string {
	if e := lookup(code); e != nil {
		return e.code3
	}
	return "und"
}

// DisplayName returns a human-readable language name for a GSI code.
// Returns "Unknown" for empty input or "00", and the uppercased code otherwise.
func DisplayName(code string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" || trimmed == "00" {
		return "Unknown"
	}
	if e := lookup(trimmed); e != nil {
		return e.display
	}
	return trimmed
}

// Describe formats a GSI code with its display name, e.g. "09 (English)".
// Empty input yields an empty string.
func Describe(code string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		return ""
	}
	if e := lookup(trimmed); e != nil {
		return e.ebu + " (" + e.display + ")"
	}
	return trimmed
}
