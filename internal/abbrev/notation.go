// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abbrev

// notationTable holds clinical shorthand that never appears with an
// inline definition: dosing frequencies, chart notation, and units.
// It sits between the static dictionaries and the external sources in
// the lookup chain.
var notationTable = map[string]string{
	// Dosing frequencies.
	"QD":  "once daily",
	"BID": "twice daily",
	"TID": "three times daily",
	"QID": "four times daily",
	"PRN": "as needed",
	"QHS": "at bedtime",
	// Chart notation.
	"VS":   "vital signs",
	"WNL":  "within normal limits",
	"NAD":  "no acute distress",
	"NKA":  "no known allergies",
	"NKDA": "no known drug allergies",
	// Units.
	"MG":  "milligrams",
	"ML":  "milliliters",
	"MCG": "micrograms",
}

// stopList excludes common short words and Roman numerals from
// candidate abbreviations.
var stopList = map[string]bool{
	"IS": true, "IT": true, "OF": true, "TO": true, "IN": true,
	"OR": true, "AN": true, "AS": true, "AT": true, "BY": true,
	"WE": true, "ME": true, "US": true,
	"I": true, "II": true, "III": true, "IV": true, "V": true,
	"VI": true, "VII": true, "VIII": true, "IX": true, "X": true,
	"NO": true, "YES": true, "OK": true, "THE": true, "AND": true,
	"FOR": true, "ARE": true, "CAN": true, "HAS": true, "BUT": true,
}
