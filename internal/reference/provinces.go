// Package reference holds static lookup tables used to label places.
package reference

import "strings"

var provinceCodes = map[string]string{
	"agrigento": "AG", "alessandria": "AL", "ancona": "AN", "aosta": "AO", "valle d'aosta": "AO",
	"arezzo": "AR", "ascoli piceno": "AP", "asti": "AT", "avellino": "AV", "bari": "BA",
	"barletta-andria-trani": "BT", "belluno": "BL", "benevento": "BN", "bergamo": "BG", "biella": "BI",
	"bologna": "BO", "bolzano": "BZ", "bozen": "BZ", "alto adige": "BZ", "südtirol": "BZ",
	"brescia": "BS", "brindisi": "BR", "cagliari": "CA", "caltanissetta": "CL", "campobasso": "CB",
	"caserta": "CE", "catania": "CT", "catanzaro": "CZ", "chieti": "CH", "como": "CO",
	"cosenza": "CS", "cremona": "CR", "crotone": "KR", "cuneo": "CN", "enna": "EN",
	"fermo": "FM", "ferrara": "FE", "firenze": "FI", "florence": "FI", "foggia": "FG",
	"forlì-cesena": "FC", "forli-cesena": "FC", "frosinone": "FR", "genova": "GE", "genoa": "GE",
	"gorizia": "GO", "grosseto": "GR", "imperia": "IM", "isernia": "IS", "l'aquila": "AQ",
	"la spezia": "SP", "latina": "LT", "lecce": "LE", "lecco": "LC", "livorno": "LI",
	"lodi": "LO", "lucca": "LU", "macerata": "MC", "mantova": "MN", "mantua": "MN",
	"massa-carrara": "MS", "massa e carrara": "MS", "matera": "MT", "messina": "ME", "milano": "MI",
	"milan": "MI", "modena": "MO", "monza e della brianza": "MB", "monza e brianza": "MB", "napoli": "NA",
	"naples": "NA", "novara": "NO", "nuoro": "NU", "oristano": "OR", "padova": "PD",
	"padua": "PD", "palermo": "PA", "parma": "PR", "pavia": "PV", "perugia": "PG",
	"pesaro e urbino": "PU", "pescara": "PE", "piacenza": "PC", "pisa": "PI", "pistoia": "PT",
	"pordenone": "PN", "potenza": "PZ", "prato": "PO", "ragusa": "RG", "ravenna": "RA",
	"reggio calabria": "RC", "reggio di calabria": "RC", "reggio emilia": "RE", "reggio nell'emilia": "RE", "rieti": "RI",
	"rimini": "RN", "roma": "RM", "rome": "RM", "rovigo": "RO", "salerno": "SA",
	"sassari": "SS", "savona": "SV", "siena": "SI", "siracusa": "SR", "syracuse": "SR",
	"sondrio": "SO", "sud sardegna": "SU", "taranto": "TA", "teramo": "TE", "terni": "TR",
	"torino": "TO", "turin": "TO", "trapani": "TP", "trento": "TN", "trentino": "TN",
	"treviso": "TV", "trieste": "TS", "udine": "UD", "varese": "VA", "venezia": "VE",
	"venice": "VE", "verbano-cusio-ossola": "VB", "vercelli": "VC", "verona": "VR", "vibo valentia": "VV",
	"vicenza": "VI", "viterbo": "VT",
}

var adminPrefixes = []string{
	"città metropolitana di ",
	"citta metropolitana di ",
	"metropolitan city of ",
	"provincia autonoma di ",
	"provincia di ",
	"province of ",
	"libero consorzio comunale di ",
}

// ProvinceCode returns the two-letter Italian province code for a county-level
// administrative name such as "Città Metropolitana di Milano" or "Province of Turin".
func ProvinceCode(adminName string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(adminName))
	for _, p := range adminPrefixes {
		if strings.HasPrefix(name, p) {
			name = strings.TrimPrefix(name, p)
			break
		}
	}
	code, ok := provinceCodes[name]
	return code, ok
}

// RegionCodeFromISO extracts the trailing code of an ISO 3166-2 subdivision ("IT-MI" gives "MI").
func RegionCodeFromISO(iso string) string {
	iso = strings.TrimSpace(iso)
	if i := strings.LastIndex(iso, "-"); i >= 0 && i < len(iso)-1 {
		return iso[i+1:]
	}
	return ""
}
